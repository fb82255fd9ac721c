package spiengine

import (
	"time"

	"github.com/brickd/brickd/brick"
	"github.com/brickd/brickd/slave"
)

// Run drives the steady-state polling loop on the calling goroutine until
// stop is closed. It should be started on its own dedicated goroutine
// after Enumerate has populated the slave table; callers typically run it
// with runtime.LockOSThread to keep its scheduling as close to a
// dedicated thread as the Go runtime allows.
//
// The cadence is held by an absolute deadline rather than a relative
// sleep after each tick: a relative sleep accumulates the time spent
// doing I/O into the period, so the loop would drift later every tick.
// Advancing deadline by TickPeriod and sleeping only the remainder means
// a late tick is never compounded into the next one.
func (e *Engine) Run(stop <-chan struct{}) {
	if e.table.Num == 0 {
		e.log.Warn("spiengine: no SPI slaves, steady-state loop exiting")
		return
	}
	deadline := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}

		e.tick()
		if e.met != nil {
			e.met.Ticks.Inc()
		}

		deadline = deadline.Add(e.cfg.TickPeriod)
		if d := time.Until(deadline); d > 0 {
			time.Sleep(d)
		}
	}
}

// tick executes one iteration: a queued send wins over round-robin
// polling, per the tie-break rule that present traffic is never starved
// by idle polling.
func (e *Engine) tick() {
	head, hasHead := e.q.peek()

	var addr int
	var outbound *brick.Packet
	if hasHead {
		addr = head.slaveIndex
		p := head.packet
		outbound = &p
	} else {
		e.cycle = (e.cycle + 1) % e.table.Num
		addr = e.cycle
	}

	busyKnown := e.table.Get(addr) != nil && e.table.Get(addr).Status == slave.AvailableBusy
	rx, busy, sendErr, readErr := e.transceive(addr, outbound, busyKnown)

	switch {
	case sendErr != nil:
		e.log.WithField("stack_address", addr).WithError(sendErr).Error("spiengine: send error")
		if e.met != nil {
			e.met.SendErrors.Inc()
		}
		if hasHead {
			e.q.pop()
			if e.met != nil {
				e.met.QueueDepth.Set(float64(e.q.len()))
			}
		}
	case hasHead && busyKnown:
		e.log.WithField("stack_address", addr).Debug("spiengine: slave busy, retrying without popping")
		if e.met != nil {
			e.met.SendBusy.Inc()
		}
	case hasHead:
		e.q.pop()
		if e.met != nil {
			e.met.Sends.Inc()
			e.met.QueueDepth.Set(float64(e.q.len()))
		}
	}

	e.table.MarkBusy(addr, busy)

	switch {
	case readErr != nil:
		e.log.WithField("stack_address", addr).WithError(readErr).Error("spiengine: read error")
		if e.met != nil {
			e.met.ReadErrors.Inc()
		}
	case rx != nil:
		if e.met != nil {
			e.met.ReadsReceived.Inc()
		}
		if e.bridge != nil {
			_ = e.bridge.Deliver(*rx)
		}
	default:
		e.log.WithField("stack_address", addr).Debug("spiengine: quiet slave, no frame to read")
		if e.met != nil {
			e.met.ReadsNone.Inc()
		}
	}
}
