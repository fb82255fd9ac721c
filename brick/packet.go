// Package brick defines the client/brick packet format carried over every
// transport (USB, SPI, RS485): a small header followed by a payload, never
// exceeding MaxLength bytes in total.
package brick

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the number of header bytes preceding the payload: a
	// 32-bit UID, an 8-bit total length, an 8-bit function code, an 8-bit
	// sequence-number-plus-flags byte, and an 8-bit error/flag byte.
	HeaderSize = 8
	// MaxLength is the largest value Length may take, header included.
	MaxLength = 80
	// MaxPayload is the largest payload a single packet may carry.
	MaxPayload = MaxLength - HeaderSize

	// BroadcastUID is the sentinel value routed to every known device.
	BroadcastUID uint32 = 0

	// FunctionStackEnumerate is the function code of the synthetic request
	// the SPI engine sends during enumeration.
	FunctionStackEnumerate uint8 = 0xfe
)

// ErrOversize is returned when a packet's declared or actual length exceeds
// MaxLength.
var ErrOversize = errors.New("brick: packet exceeds maximum length")

// ErrTruncated is returned when decoding a buffer shorter than its own
// declared length.
var ErrTruncated = errors.New("brick: buffer shorter than declared length")

// Packet is a value type: callers copy it by its declared Length, never by
// MaxLength, when handing it across the outbound queue or the event bridge.
type Packet struct {
	UID         uint32
	Length      uint8 // total length, header included
	Function    uint8
	SeqAndFlags uint8 // 4-bit sequence number, low nibble; response-expected flag, bit 4
	Flags       uint8 // error/flag byte
	Payload     []byte
}

// ExpectsResponse reports whether bit 4 of SeqAndFlags, the
// "response-expected" flag, is set.
func (p *Packet) ExpectsResponse() bool {
	return p.SeqAndFlags&0x10 != 0
}

// Sequence returns the 4-bit sequence number packed into SeqAndFlags.
func (p *Packet) Sequence() uint8 {
	return p.SeqAndFlags & 0x0f
}

// Encode serializes the packet into dst, which must be at least
// HeaderSize+len(Payload) bytes long, and returns the number of bytes
// written.
func (p *Packet) Encode(dst []byte) (int, error) {
	n := HeaderSize + len(p.Payload)
	if n > MaxLength {
		return 0, ErrOversize
	}
	if len(dst) < n {
		return 0, fmt.Errorf("brick: Encode: destination too small: need %d, got %d", n, len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], p.UID)
	dst[4] = p.Length
	dst[5] = p.Function
	dst[6] = p.SeqAndFlags
	dst[7] = p.Flags
	copy(dst[HeaderSize:n], p.Payload)
	return n, nil
}

// Decode parses a packet out of buf. buf must contain at least HeaderSize
// bytes; the packet's own Length field determines how much of the
// remainder is payload.
func Decode(buf []byte) (Packet, error) {
	var p Packet
	if len(buf) < HeaderSize {
		return p, ErrTruncated
	}
	p.UID = binary.LittleEndian.Uint32(buf[0:4])
	p.Length = buf[4]
	p.Function = buf[5]
	p.SeqAndFlags = buf[6]
	p.Flags = buf[7]
	if p.Length > MaxLength {
		return p, ErrOversize
	}
	if int(p.Length) < HeaderSize {
		return p, fmt.Errorf("brick: Decode: length %d shorter than header", p.Length)
	}
	if len(buf) < int(p.Length) {
		return p, ErrTruncated
	}
	if n := int(p.Length) - HeaderSize; n > 0 {
		p.Payload = append([]byte(nil), buf[HeaderSize:p.Length]...)
	}
	return p, nil
}

// Clone returns a value copy of p with its own payload backing array, safe
// to hand across the outbound queue or the event bridge without aliasing
// the caller's buffer.
func (p *Packet) Clone() Packet {
	c := *p
	if len(p.Payload) > 0 {
		c.Payload = append([]byte(nil), p.Payload...)
	}
	return c
}

// DecodeUIDList parses an ordered list of little-endian 32-bit UIDs from an
// enumerate response payload, terminated by a zero UID or by running out
// of bytes.
func DecodeUIDList(payload []byte) []uint32 {
	var uids []uint32
	for i := 0; i+4 <= len(payload); i += 4 {
		uid := binary.LittleEndian.Uint32(payload[i : i+4])
		if uid == BroadcastUID {
			break
		}
		uids = append(uids, uid)
	}
	return uids
}
