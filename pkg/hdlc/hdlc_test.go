package hdlc

import (
	"bytes"
	"testing"
)

func TestPackUnpack_RoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x7E, 0x55, 0xAA, 0x01}
	bits := Unpack(data)
	if len(bits) != len(data)*8 {
		t.Fatalf("unpack length = %d, want %d", len(bits), len(data)*8)
	}
	packed := Pack(bits)
	if !bytes.Equal(packed, data) {
		t.Fatalf("round trip mismatch: got %x want %x", packed, data)
	}
}

func TestPack_PadsFinalByte(t *testing.T) {
	bits := []byte{1, 1, 1, 1, 1} // 5 bits -> 1 byte, 3 zero-padded low bits
	packed := Pack(bits)
	if len(packed) != 1 {
		t.Fatalf("len = %d, want 1", len(packed))
	}
	if packed[0] != 0xF8 {
		t.Fatalf("packed = %08b, want %08b", packed[0], byte(0xF8))
	}
}

func TestStuffUnstuff_RoundTrip(t *testing.T) {
	body := []byte{0x01, 0x02, 0xFF, 0xFF, 0x7E, 0x00, 0xAA}

	stuffed, err := Stuff(body)
	if err != nil {
		t.Fatalf("Stuff: %v", err)
	}

	bits := append(append(append([]byte{}, FlagBits()...), stuffed...), FlagBits()...)

	start, err := ScanFlag(bits, 0)
	if err != nil {
		t.Fatalf("ScanFlag: %v", err)
	}

	got, end, err := Unstuff(bits, start+8)
	if err != nil {
		t.Fatalf("Unstuff: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("round trip mismatch: got %x want %x", got, body)
	}
	if end+8 != len(bits) {
		t.Fatalf("end = %d, want %d", end, len(bits)-8)
	}
}

func TestStuff_InsertsZeroAfterFiveOnes(t *testing.T) {
	body := []byte{0xFF} // 8 consecutive 1 bits
	stuffed, err := Stuff(body)
	if err != nil {
		t.Fatalf("Stuff: %v", err)
	}
	// bits 0-4 are the first five 1s, then the inserted 0, then the
	// remaining two 1 bits of the byte (their run never reaches 5 again).
	want := []byte{1, 1, 1, 1, 1, 0, 1, 1, 1}
	if !bytes.Equal(stuffed, want) {
		t.Fatalf("stuffed = %v, want %v", stuffed, want)
	}
}

func TestUnstuff_DesyncOnBadStuffBit(t *testing.T) {
	// A run of five 1s followed by a 1 (instead of the mandatory 0) ought to
	// desync, not silently continue.
	bits := append(append([]byte{}, FlagBits()...), []byte{1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}...)
	bits = append(bits, FlagBits()...)

	start, err := ScanFlag(bits, 0)
	if err != nil {
		t.Fatalf("ScanFlag: %v", err)
	}
	_, _, err = Unstuff(bits, start+8)
	if err != ErrDesync {
		t.Fatalf("err = %v, want ErrDesync", err)
	}
}

func TestScanFlag_NotFound(t *testing.T) {
	bits := []byte{1, 0, 1, 0, 1, 0, 1, 0}
	if _, err := ScanFlag(bits, 0); err != ErrFlagNotFound {
		t.Fatalf("err = %v, want ErrFlagNotFound", err)
	}
}

func TestStuff_AllFlagBytesRoundTrip(t *testing.T) {
	// A payload consisting entirely of the flag byte must not be confused
	// with real flags once stuffed: 0111 1110 scanned LSB-first is
	// 0,1,1,1,1,1,1,0 which triggers exactly one stuffed zero per byte.
	body := bytes.Repeat([]byte{0x7E}, 4)
	stuffed, err := Stuff(body)
	if err != nil {
		t.Fatalf("Stuff: %v", err)
	}
	bits := append(append(append([]byte{}, FlagBits()...), stuffed...), FlagBits()...)
	start, err := ScanFlag(bits, 0)
	if err != nil {
		t.Fatalf("ScanFlag: %v", err)
	}
	got, _, err := Unstuff(bits, start+8)
	if err != nil {
		t.Fatalf("Unstuff: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("got %x want %x", got, body)
	}
}
