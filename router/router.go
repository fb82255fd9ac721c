// Package router dispatches outbound client packets to the transport that
// owns their target UID, and exposes the single inbound entry point every
// transport uses to surface a received packet.
package router

import (
	"sync"

	"github.com/brickd/brickd/brick"
	"github.com/sirupsen/logrus"
)

// Stack is the capability set a transport registers with the router: a
// name for logging, a way to ask whether it owns a UID, and a way to hand
// it an outbound packet. This replaces a base-struct-plus-function-pointer
// transport hierarchy with a plain interface; each transport (USB, SPI,
// RS485) supplies its own concrete implementation.
type Stack interface {
	// Name identifies the stack in logs.
	Name() string
	// OwnsUID reports whether this stack's device set claims uid.
	OwnsUID(uid uint32) bool
	// DispatchRequest hands packet to the transport for delivery to the
	// device(s) it addresses. It must not block on the caller's behalf
	// longer than the transport's own queuing allows.
	DispatchRequest(packet brick.Packet)
}

// ResponseHandler is invoked once per packet a transport receives from a
// device; it is expected to return quickly, delegating client-facing
// serialization to the network layer.
type ResponseHandler func(packet brick.Packet)

// Router is the system-wide entry point for the rest of the daemon. It
// owns an ordered list of registered stacks and the single inbound
// callback every stack's received traffic flows through.
type Router struct {
	mu     sync.RWMutex
	stacks []Stack

	OnResponse ResponseHandler
}

// New returns an empty Router. OnResponse must be set before any stack
// starts delivering inbound traffic.
func New() *Router {
	return &Router{}
}

// Register appends stack to the ordered list consulted by DispatchOutbound.
// Registration order is preserved; it is also the broadcast fan-out order.
func (r *Router) Register(s Stack) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stacks = append(r.stacks, s)
}

// DispatchOutbound routes a client request by UID. UID 0 fans the packet
// out to every registered stack; any other UID goes to the one stack that
// claims it, or is logged and dropped if none do.
func (r *Router) DispatchOutbound(packet brick.Packet) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if packet.UID == brick.BroadcastUID {
		for _, s := range r.stacks {
			s.DispatchRequest(packet)
		}
		return
	}
	for _, s := range r.stacks {
		if s.OwnsUID(packet.UID) {
			s.DispatchRequest(packet)
			return
		}
	}
	logrus.WithField("uid", packet.UID).Error("router: no stack owns this UID, dropping packet")
}

// DispatchInbound forwards a packet received by any transport to the
// registered response handler, if one has been set.
func (r *Router) DispatchInbound(packet brick.Packet) {
	r.mu.RLock()
	h := r.OnResponse
	r.mu.RUnlock()
	if h != nil {
		h(packet)
	}
}
