// Package spiengine owns the SPI device and drives the 500 microsecond
// polling loop that interleaves outbound sends with round-robin receives
// across up to eight stack-bus slaves. It is the bottom of the stack: the
// router dispatches to it, it dispatches to the bridge.
package spiengine

import (
	"fmt"
	"time"

	"github.com/brickd/brickd/brick"
	"github.com/brickd/brickd/bridge"
	"github.com/brickd/brickd/conn/gpio"
	"github.com/brickd/brickd/conn/spi"
	"github.com/brickd/brickd/metrics"
	"github.com/brickd/brickd/slave"
	"github.com/brickd/brickd/spiframe"
	"github.com/sirupsen/logrus"
)

// Config holds the engine's tunables. The zero Config is not usable;
// DefaultConfig returns the values the stack bus is specified to use.
type Config struct {
	// TickPeriod is the steady-state polling cadence.
	TickPeriod time.Duration
	// EnumerateAttempts bounds both the send and the poll phase of
	// enumerating each stack address.
	EnumerateAttempts int
	// EnumerateDelay is the pause between enumeration attempts.
	EnumerateDelay time.Duration
}

// DefaultConfig returns a 500µs cadence with a 10-attempt, 50ms-spaced
// enumeration retry budget.
func DefaultConfig() Config {
	return Config{
		TickPeriod:        500 * time.Microsecond,
		EnumerateAttempts: 10,
		EnumerateDelay:    50 * time.Millisecond,
	}
}

// Engine is a router.Stack: it owns the SPI device, the slave table, and
// the outbound queue, and forwards received packets to the bridge.
type Engine struct {
	name   string
	conn   spi.Conn
	table  *slave.Table
	lines  []gpio.PinOut
	bridge *bridge.Bridge
	cfg    Config
	met    *metrics.Engine
	log    logrus.FieldLogger

	q     queue
	cycle int

	tx, rx [spiframe.Size]byte
}

// New wires an Engine over an already-connected SPI conn. lines must have
// one entry per stack address the bus can address, in stack-address
// order; New drives every line high (deselected) before returning.
func New(conn spi.Conn, lines []gpio.PinOut, br *bridge.Bridge, met *metrics.Engine, log logrus.FieldLogger) (*Engine, error) {
	if len(lines) == 0 || len(lines) > slave.Count {
		return nil, fmt.Errorf("spiengine: need 1..%d select lines, got %d", slave.Count, len(lines))
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Engine{
		name:   "spi",
		conn:   conn,
		table:  slave.NewTable(),
		lines:  lines,
		bridge: br,
		cfg:    DefaultConfig(),
		met:    met,
		log:    log,
	}
	for i, line := range lines {
		if err := line.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("spiengine: deselecting line %d: %v", i, err)
		}
	}
	return e, nil
}

// Name implements router.Stack.
func (e *Engine) Name() string {
	return e.name
}

// OwnsUID implements router.Stack.
func (e *Engine) OwnsUID(uid uint32) bool {
	return e.table.FindByUID(uid) != nil
}

// DispatchRequest implements router.Stack: it resolves the owning slave
// and enqueues a copy of the packet under the queue mutex. It never
// blocks on SPI I/O.
//
// A broadcast UID fans out internally: one queued copy per present slave,
// in stack-address order, rather than a single queue entry.
func (e *Engine) DispatchRequest(packet brick.Packet) {
	if packet.UID == brick.BroadcastUID {
		for i := 0; i < e.table.Num; i++ {
			e.q.push(i, packet.Clone())
		}
		if e.met != nil {
			e.met.QueueDepth.Set(float64(e.q.len()))
		}
		return
	}
	s := e.table.FindByUID(packet.UID)
	if s == nil {
		e.log.WithField("uid", packet.UID).Error("spiengine: no slave owns this UID, dropping packet")
		return
	}
	e.q.push(s.StackAddress, packet.Clone())
	if e.met != nil {
		e.met.QueueDepth.Set(float64(e.q.len()))
	}
}

// SlaveCount returns the number of present slaves found by the last
// enumeration.
func (e *Engine) SlaveCount() int {
	return e.table.Num
}

// Slaves returns the present slaves, for diagnostics.
func (e *Engine) Slaves() []slave.Slave {
	return e.table.Present()
}

func (e *Engine) selectLine(index int) gpio.PinOut {
	if index < 0 || index >= len(e.lines) {
		return nil
	}
	return e.lines[index]
}

// transceive selects the slave, performs one fixed 84-byte duplex
// transfer, and deselects it again. packet is the packet to send, or nil
// for a poll; the response frame, if any, is decoded from the receive
// buffer.
func (e *Engine) transceive(index int, packet *brick.Packet, busyKnown bool) (rxPacket *brick.Packet, busy bool, sendErr, readErr error) {
	line := e.selectLine(index)
	if line == nil {
		sendErr = fmt.Errorf("spiengine: no select line for stack address %d", index)
		return
	}
	if encErr := spiframe.Encode(e.tx[:], packet, busyKnown); encErr != nil {
		sendErr = encErr
		return
	}
	if err := line.Out(gpio.Low); err != nil {
		sendErr = fmt.Errorf("spiengine: select: %v", err)
		return
	}
	txErr := e.conn.Tx(e.tx[:], e.rx[:])
	if err := line.Out(gpio.High); err != nil && txErr == nil {
		txErr = fmt.Errorf("spiengine: deselect: %v", err)
	}
	if txErr != nil {
		sendErr = txErr
		return
	}
	pkt, b, decErr := spiframe.Decode(e.rx[:])
	busy = b
	switch decErr {
	case nil:
		rxPacket = pkt
	case spiframe.ErrReadNone:
		// Normal: nothing came back this tick.
	default:
		readErr = decErr
	}
	return
}
