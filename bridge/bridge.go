// Package bridge hands a single decoded packet at a time from the SPI
// thread to the event loop: a notification pipe wakes the event loop, and
// an acknowledgement channel holds the SPI thread back until the packet
// has been consumed.
package bridge

import (
	"fmt"
	"os"

	"github.com/brickd/brickd/brick"
)

// Bridge is the cross-thread hand-off described in the stack engine's
// design: one packet slot, one notification pipe, and a rendezvous that
// blocks the SPI thread until the event loop has consumed the slot.
//
// The slot itself needs no lock: only the SPI thread ever writes it, only
// the event loop ever reads it, and the pipe write/ack pair is the fence
// between those two accesses. The ack channel plays the role the source
// system gives a binary semaphore: an unbuffered channel carrying the
// rendezvous token rather than the packet itself, since the packet
// already has a fixed home in the slot.
type Bridge struct {
	r, w *os.File
	ack  chan struct{}

	slot brick.Packet
}

// New creates the notification pipe and the hand-off primitives. Callers
// register ReadFD with their event loop for read-readiness.
func New() (*Bridge, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("bridge: %v", err)
	}
	return &Bridge{r: r, w: w, ack: make(chan struct{})}, nil
}

// Close releases the notification pipe. It is safe to call once the SPI
// thread has stopped delivering.
func (b *Bridge) Close() error {
	werr := b.w.Close()
	rerr := b.r.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// ReadFD is the file descriptor the event loop should poll for
// readability; one byte becomes available each time Deliver is called.
func (b *Bridge) ReadFD() uintptr {
	return b.r.Fd()
}

// Deliver is called from the SPI thread with a packet the engine just
// decoded. It blocks until the event loop has drained the slot via Drain,
// giving the bridge single-slot back-pressure: the engine can never
// overwrite an unread packet, and a stalled event loop stalls the SPI
// thread rather than losing payloads.
func (b *Bridge) Deliver(packet brick.Packet) error {
	b.slot = packet
	if _, err := b.w.Write([]byte{1}); err != nil {
		return fmt.Errorf("bridge: notify: %v", err)
	}
	<-b.ack
	return nil
}

// Drain is called by the event loop when ReadFD becomes readable. It
// consumes the notification byte, hands the slot's packet to deliver, and
// releases the SPI thread waiting in Deliver.
//
// deliver receives a copy of the slot's packet with its own Payload
// backing array, so it may keep the packet after the call returns.
func (b *Bridge) Drain(deliver func(brick.Packet)) error {
	var buf [1]byte
	if _, err := b.r.Read(buf[:]); err != nil {
		return fmt.Errorf("bridge: drain: %v", err)
	}
	pkt := b.slot.Clone()
	deliver(pkt)
	b.ack <- struct{}{}
	return nil
}
