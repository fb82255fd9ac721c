// Package metrics exposes Prometheus instrumentation for the SPI stack
// engine: tick cadence, transceive outcomes, and enumeration results.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine holds the counters and gauges the SPI engine updates every tick.
// A single instance is meant to be registered once per process.
type Engine struct {
	Ticks           prometheus.Counter
	Sends           prometheus.Counter
	SendErrors      prometheus.Counter
	SendBusy        prometheus.Counter
	ReadsReceived   prometheus.Counter
	ReadsNone       prometheus.Counter
	ReadErrors      prometheus.Counter
	QueueDepth      prometheus.Gauge
	SlavesPresent   prometheus.Gauge
	EnumerationTime prometheus.Histogram
}

// NewEngine constructs and registers the engine's metrics on reg.
func NewEngine(reg prometheus.Registerer) *Engine {
	e := &Engine{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "ticks_total",
			Help:      "Number of steady-state polling loop ticks executed.",
		}),
		Sends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "sends_total",
			Help:      "Number of outbound packets successfully transmitted.",
		}),
		SendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "send_errors_total",
			Help:      "Number of ticks whose transfer failed with a send error; a queued packet, if any, is dropped.",
		}),
		SendBusy: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "send_busy_total",
			Help:      "Number of ticks a send was deferred because the slave was busy.",
		}),
		ReadsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "reads_received_total",
			Help:      "Number of frames decoded into a non-empty packet.",
		}),
		ReadsNone: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "reads_none_total",
			Help:      "Number of empty or quiet-line frames decoded.",
		}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "read_errors_total",
			Help:      "Number of frames discarded for a framing or hash error.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "queue_depth",
			Help:      "Current number of packets waiting in the outbound queue.",
		}),
		SlavesPresent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "slaves_present",
			Help:      "Number of slaves found present at the last enumeration.",
		}),
		EnumerationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brickd",
			Subsystem: "spi",
			Name:      "enumeration_seconds",
			Help:      "Wall-clock time spent in the startup enumeration pass.",
		}),
	}
	if reg != nil {
		reg.MustRegister(e.Ticks, e.Sends, e.SendErrors, e.SendBusy, e.ReadsReceived,
			e.ReadsNone, e.ReadErrors, e.QueueDepth, e.SlavesPresent, e.EnumerationTime)
	}
	return e
}
