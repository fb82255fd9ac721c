package spiengine

import (
	"time"

	"github.com/brickd/brickd/brick"
)

// Enumerate walks stack addresses 0..len(lines)-1, probing each one for a
// response to a synthetic "stack enumerate" request. The first address
// that fails its retry budget ends discovery: holes are impossible by
// construction, since Num only ever advances past addresses that answered.
func (e *Engine) Enumerate() {
	for addr := 0; addr < len(e.lines); addr++ {
		uids, ok := e.enumerateOne(addr)
		if !ok {
			e.table.MarkAbsent(addr)
			e.log.WithField("stack_address", addr).Warn("spiengine: enumeration stopped, no slave responded")
			break
		}
		e.table.RecordUIDs(addr, uids)
		e.table.Num = addr + 1
		e.log.WithField("stack_address", addr).WithField("uids", len(uids)).Info("spiengine: slave enumerated")
	}
	if e.met != nil {
		e.met.SlavesPresent.Set(float64(e.table.Num))
	}
	if e.table.Num == 0 {
		e.log.Warn("spiengine: no SPI slaves found")
	}
}

// enumerateOne runs the send phase then the poll phase for one address,
// returning the UID list from the response and whether the address
// answered at all within budget.
func (e *Engine) enumerateOne(addr int) ([]uint32, bool) {
	req := brick.Packet{
		UID:         brick.BroadcastUID,
		Length:      brick.HeaderSize,
		Function:    brick.FunctionStackEnumerate,
		SeqAndFlags: 0x10, // response-expected
	}

	sent := false
	for attempt := 0; attempt < e.cfg.EnumerateAttempts; attempt++ {
		_, _, sendErr, _ := e.transceive(addr, &req, false)
		if sendErr == nil {
			sent = true
			break
		}
		time.Sleep(e.cfg.EnumerateDelay)
	}
	if !sent {
		return nil, false
	}

	for attempt := 0; attempt < e.cfg.EnumerateAttempts; attempt++ {
		pkt, _, sendErr, readErr := e.transceive(addr, nil, false)
		if sendErr != nil || readErr != nil {
			time.Sleep(e.cfg.EnumerateDelay)
			continue
		}
		if pkt != nil {
			return brick.DecodeUIDList(pkt.Payload), true
		}
		time.Sleep(e.cfg.EnumerateDelay)
	}
	return nil, false
}
