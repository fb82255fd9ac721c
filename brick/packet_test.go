package brick

import (
	"bytes"
	"testing"
)

func TestPacket_EncodeDecode_roundTrip(t *testing.T) {
	p := Packet{
		UID:         0x0000abcd,
		Function:    3,
		SeqAndFlags: 0x15,
		Flags:       0,
		Payload:     []byte{1, 2, 3, 4},
	}
	p.Length = HeaderSize + uint8(len(p.Payload))

	buf := make([]byte, MaxLength)
	n, err := p.Encode(buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n != HeaderSize+len(p.Payload) {
		t.Fatalf("Encode wrote %d bytes, want %d", n, HeaderSize+len(p.Payload))
	}

	got, err := Decode(buf[:n])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.UID != p.UID || got.Length != p.Length || got.Function != p.Function || got.SeqAndFlags != p.SeqAndFlags {
		t.Fatalf("Decode = %+v, want %+v", got, p)
	}
	if !bytes.Equal(got.Payload, p.Payload) {
		t.Fatalf("Decode payload = %v, want %v", got.Payload, p.Payload)
	}
}

func TestPacket_Encode_oversize(t *testing.T) {
	p := Packet{Payload: make([]byte, MaxPayload+1)}
	buf := make([]byte, MaxLength+16)
	if _, err := p.Encode(buf); err != ErrOversize {
		t.Fatalf("err = %v, want ErrOversize", err)
	}
}

func TestPacket_Encode_destinationTooSmall(t *testing.T) {
	p := Packet{Payload: []byte{1, 2, 3}}
	buf := make([]byte, HeaderSize)
	if _, err := p.Encode(buf); err == nil {
		t.Fatal("expected an error for an undersized destination")
	}
}

func TestDecode_truncated(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestDecode_lengthShorterThanHeader(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[4] = HeaderSize - 1
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected an error when length is shorter than the header")
	}
}

func TestDecode_declaredLengthExceedsBuffer(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[4] = HeaderSize + 10
	if _, err := Decode(buf); err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestExpectsResponse_and_Sequence(t *testing.T) {
	p := Packet{SeqAndFlags: 0x17}
	if !p.ExpectsResponse() {
		t.Fatal("expected the response-expected bit to be set")
	}
	if p.Sequence() != 0x07 {
		t.Fatalf("Sequence() = %d, want 7", p.Sequence())
	}
}

func TestPacket_Clone_detachesPayload(t *testing.T) {
	p := Packet{UID: 1, Payload: []byte{9, 9}}
	c := p.Clone()
	c.Payload[0] = 0
	if p.Payload[0] != 9 {
		t.Fatal("Clone must not alias the original payload backing array")
	}
}

func TestDecodeUIDList(t *testing.T) {
	payload := []byte{
		0xcd, 0xab, 0x00, 0x00, // 0x0000abcd
		0x34, 0x12, 0x00, 0x00, // 0x00001234
		0x00, 0x00, 0x00, 0x00, // terminator
		0xff, 0xff, 0xff, 0xff, // must not be reached
	}
	uids := DecodeUIDList(payload)
	want := []uint32{0x0000abcd, 0x00001234}
	if len(uids) != len(want) {
		t.Fatalf("DecodeUIDList = %v, want %v", uids, want)
	}
	for i := range want {
		if uids[i] != want[i] {
			t.Fatalf("DecodeUIDList[%d] = %#x, want %#x", i, uids[i], want[i])
		}
	}
}

func TestDecodeUIDList_noTerminator(t *testing.T) {
	payload := []byte{0x01, 0x00, 0x00, 0x00}
	uids := DecodeUIDList(payload)
	if len(uids) != 1 || uids[0] != 1 {
		t.Fatalf("DecodeUIDList = %v, want [1]", uids)
	}
}
