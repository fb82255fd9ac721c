package spiframe

import (
	"errors"
	"testing"

	"github.com/brickd/brickd/brick"
)

func TestHash_vector(t *testing.T) {
	want := perm[perm[perm[0^0xaa]^0x04]^0x00]
	got := hash([]byte{0xaa, 0x04, 0x00})
	if got != want {
		t.Fatalf("hash() = 0x%02x, want 0x%02x", got, want)
	}
}

func TestPerm_isPermutation(t *testing.T) {
	var seen [256]bool
	for _, v := range perm {
		if seen[v] {
			t.Fatalf("value 0x%02x appears more than once in perm", v)
		}
		seen[v] = true
	}
}

func TestEncodeDecode_roundTrip(t *testing.T) {
	pkt := &brick.Packet{
		UID:         0x0000abcd,
		Function:    5,
		SeqAndFlags: 0x11,
		Payload:     []byte{1, 2, 3, 4},
	}
	pkt.Length = brick.HeaderSize + uint8(len(pkt.Payload))

	buf := make([]byte, Size)
	if err := Encode(buf, pkt, false); err != nil {
		t.Fatal(err)
	}
	got, busy, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if busy {
		t.Fatal("unexpected busy bit")
	}
	if got.UID != pkt.UID || got.Function != pkt.Function || string(got.Payload) != string(pkt.Payload) {
		t.Fatalf("got %+v, want %+v", got, pkt)
	}
}

func TestEncode_busyKnown_emitsEmptyFrame(t *testing.T) {
	pkt := &brick.Packet{UID: 1, Length: brick.HeaderSize, Function: 1}
	buf := make([]byte, Size)
	if err := Encode(buf, pkt, true); err != nil {
		t.Fatal(err)
	}
	got, _, err := Decode(buf)
	if !errors.Is(err, ErrReadNone) {
		t.Fatalf("expected ErrReadNone, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil packet, got %+v", got)
	}
}

func TestEncode_nilPacket_emitsEmptyFrame(t *testing.T) {
	buf := make([]byte, Size)
	if err := Encode(buf, nil, false); err != nil {
		t.Fatal(err)
	}
	if buf[1] != MinLength {
		t.Fatalf("length = %d, want %d", buf[1], MinLength)
	}
}

func TestEncode_oversize(t *testing.T) {
	pkt := &brick.Packet{Payload: make([]byte, brick.MaxPayload+1)}
	buf := make([]byte, Size)
	if err := Encode(buf, pkt, false); !errors.Is(err, ErrOversize) {
		t.Fatalf("expected ErrOversize, got %v", err)
	}
}

func TestDecode_quietLine(t *testing.T) {
	buf := make([]byte, Size)
	_, _, err := Decode(buf)
	if !errors.Is(err, ErrReadNone) {
		t.Fatalf("expected ErrReadNone for all-zero buffer, got %v", err)
	}
}

func TestDecode_badPreamble(t *testing.T) {
	buf := make([]byte, Size)
	buf[0] = 0x55
	_, _, err := Decode(buf)
	if !errors.Is(err, ErrReadError) {
		t.Fatalf("expected ErrReadError, got %v", err)
	}
}

func TestDecode_badLength(t *testing.T) {
	buf := make([]byte, Size)
	buf[0] = Preamble
	buf[1] = 255
	_, _, err := Decode(buf)
	if !errors.Is(err, ErrReadError) {
		t.Fatalf("expected ErrReadError, got %v", err)
	}
}

func TestDecode_hashMismatch(t *testing.T) {
	pkt := &brick.Packet{UID: 1, Length: brick.HeaderSize, Function: 1}
	buf := make([]byte, Size)
	if err := Encode(buf, pkt, false); err != nil {
		t.Fatal(err)
	}
	length := buf[1]
	buf[length-1] ^= 0xff // corrupt the hash byte itself
	if _, _, err := Decode(buf); !errors.Is(err, ErrReadError) {
		t.Fatalf("expected ErrReadError on hash mismatch, got %v", err)
	}
}

// singleByteFlip verifies the property from the testable-properties list:
// flipping any one byte in [0, length) (except position 0 landing on 0x00)
// causes Decode to fail, since it perturbs either the preamble, the length,
// the payload (and thus the hash), or the hash byte itself.
func TestDecode_singleByteFlip(t *testing.T) {
	pkt := &brick.Packet{
		UID:         0x01020304,
		Function:    9,
		SeqAndFlags: 0x02,
		Payload:     []byte{0xde, 0xad, 0xbe, 0xef},
	}
	pkt.Length = brick.HeaderSize + uint8(len(pkt.Payload))
	base := make([]byte, Size)
	if err := Encode(base, pkt, false); err != nil {
		t.Fatal(err)
	}
	length := int(base[1])
	for i := 0; i < length; i++ {
		buf := append([]byte(nil), base...)
		buf[i] ^= 0x01
		_, _, err := Decode(buf)
		if i == 0 && buf[0] == 0x00 {
			if !errors.Is(err, ErrReadNone) {
				t.Fatalf("byte 0 flipped to 0x00: expected ErrReadNone, got %v", err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("byte %d flipped: expected Decode to fail, got success", i)
		}
	}
}
