// Package httpapi exposes a read-only diagnostics surface over the stack
// engine's slave table and metrics, for operators inspecting a running
// daemon; it carries no control-plane operations of its own.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/brickd/brickd/slave"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SlaveTable is the subset of spiengine.Engine the diagnostics handlers
// need, kept narrow so this package never imports the engine directly.
type SlaveTable interface {
	SlaveCount() int
	Slaves() []slave.Slave
}

// NewRouter builds the diagnostics mux: /healthz, /slaves, and /metrics.
func NewRouter(table SlaveTable) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	r.HandleFunc("/slaves", slavesHandler(table)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type slaveView struct {
	StackAddress int      `json:"stack_address"`
	Status       string   `json:"status"`
	UIDs         []uint32 `json:"uids"`
}

func slavesHandler(table SlaveTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		present := table.Slaves()
		views := make([]slaveView, len(present))
		for i := range present {
			s := &present[i]
			views[i] = slaveView{
				StackAddress: s.StackAddress,
				Status:       s.Status.String(),
				UIDs:         s.UIDs(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(views)
	}
}
