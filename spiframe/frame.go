// Package spiframe implements the fixed 84-byte SPI wire frame: a
// preamble, a length, up to 80 bytes of brick.Packet payload, a
// slave-busy info byte, and a Pearson-hash integrity byte.
package spiframe

import (
	"errors"
	"fmt"

	"github.com/brickd/brickd/brick"
)

const (
	// Size is the fixed number of bytes transferred in every duplex
	// transaction, regardless of how much of it is meaningful.
	Size = 84
	// Preamble is the constant first byte of every non-empty frame.
	Preamble = 0xaa
	// MinLength is the length of an empty frame: preamble, length, info,
	// hash, with no payload. It doubles as a keep-alive poll.
	MinLength = 4
	// infoBusy is bit 0 of the info byte: the slave cannot accept another
	// request right now.
	infoBusy = 0x01
)

// ErrOversize is returned by Encode when the packet would not fit in a
// frame.
var ErrOversize = brick.ErrOversize

// ErrReadError indicates a malformed frame: a non-zero, non-preamble first
// byte, an out-of-range length, or a hash mismatch. The caller should log
// and discard the frame; the bus is not retried mid-tick.
var ErrReadError = errors.New("spiframe: read error")

// ErrReadNone indicates the slave had nothing to say: either an
// electrically quiet line (all-zero buffer) or a valid empty frame. This
// is normal operation, not a fault.
var ErrReadNone = errors.New("spiframe: read none")

// Encode serializes packet into dst, a buffer of at least Size bytes.
// When packet is nil or busyKnown is true, it emits an empty frame
// instead: the bus never sends a payload to a slave it believes is busy.
func Encode(dst []byte, packet *brick.Packet, busyKnown bool) error {
	if len(dst) < Size {
		return fmt.Errorf("spiframe: Encode: destination shorter than %d bytes", Size)
	}
	for i := range dst {
		dst[i] = 0
	}
	dst[0] = Preamble
	if packet == nil || busyKnown {
		dst[1] = MinLength
		dst[2] = 0 // info
		dst[3] = hash(dst[:3])
		return nil
	}
	n, err := packet.Encode(dst[2:])
	if err != nil {
		return err
	}
	length := n + 4
	if length > Size {
		return ErrOversize
	}
	dst[1] = byte(length)
	dst[2+n] = 0 // info: master always sends 0
	dst[length-1] = hash(dst[:length-1])
	return nil
}

// Decode validates and parses a received frame. On success it returns the
// contained packet and the slave's busy bit. A valid MinLength empty
// frame returns a nil packet, the slave's busy bit and ErrReadNone; a
// quiet line (zero first byte) returns a nil packet, false and
// ErrReadNone. On ErrReadNone the bus should treat the tick as
// uneventful.
func Decode(buf []byte) (*brick.Packet, bool, error) {
	if len(buf) < Size {
		return nil, false, fmt.Errorf("spiframe: Decode: buffer shorter than %d bytes", Size)
	}
	if buf[0] != Preamble {
		if buf[0] == 0 {
			return nil, false, ErrReadNone
		}
		return nil, false, ErrReadError
	}
	length := int(buf[1])
	if length < MinLength || length > Size {
		return nil, false, ErrReadError
	}
	if hash(buf[:length-1]) != buf[length-1] {
		return nil, false, ErrReadError
	}
	info := buf[length-2]
	busy := info&infoBusy != 0
	if length == MinLength {
		return nil, busy, ErrReadNone
	}
	pkt, err := brick.Decode(buf[2 : length-2])
	if err != nil {
		return nil, busy, fmt.Errorf("%w: %v", ErrReadError, err)
	}
	return &pkt, busy, nil
}
