package ax25

import (
	"bytes"
	"testing"

	"github.com/parsat-ground/ax25link/pkg/crc"
)

func testAddr(t *testing.T) [AddressFieldLen]byte {
	t.Helper()
	addr, err := BuildAddressField(Station{Callsign: "ABCD"}, Station{Callsign: "PARSAT"})
	if err != nil {
		t.Fatalf("BuildAddressField: %v", err)
	}
	return addr
}

func TestBuildFrame_Layout(t *testing.T) {
	addr := testAddr(t)
	info := []byte("Hello")

	frame, err := BuildFrame(FrameUI, info, addr, uiControl, 1)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}

	if frame[0] != flagByte || frame[len(frame)-1] != flagByte {
		t.Fatalf("frame not flag-delimited: %x", frame)
	}

	body := frame[1 : len(frame)-1]
	if !bytes.Equal(body[:AddressFieldLen], addr[:]) {
		t.Errorf("address mismatch")
	}
	if body[AddressFieldLen] != uiControl {
		t.Errorf("control = %02X, want %02X", body[AddressFieldLen], uiControl)
	}
	if body[AddressFieldLen+1] != PID {
		t.Errorf("PID = %02X, want %02X", body[AddressFieldLen+1], PID)
	}
	gotInfo := body[AddressFieldLen+2 : len(body)-FCSLen]
	if !bytes.Equal(gotInfo, info) {
		t.Errorf("info mismatch: got %q want %q", gotInfo, info)
	}

	wantFCS := crc.Calc(body[:len(body)-FCSLen])
	gotFCS := uint16(body[len(body)-2])<<8 | uint16(body[len(body)-1])
	if gotFCS != wantFCS {
		t.Errorf("FCS = %04X, want %04X", gotFCS, wantFCS)
	}
}

func TestBuildFrame_TwoByteControlLittleEndian(t *testing.T) {
	addr := testAddr(t)
	frame, err := BuildFrame(FrameUI, nil, addr, 0x1234, 2)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	body := frame[1 : len(frame)-1]
	if body[AddressFieldLen] != 0x34 || body[AddressFieldLen+1] != 0x12 {
		t.Errorf("control bytes = %02X %02X, want 34 12 (low byte first)", body[AddressFieldLen], body[AddressFieldLen+1])
	}
}

func TestBuildFrame_RejectsNonUI(t *testing.T) {
	addr := testAddr(t)
	for _, ft := range []FrameType{FrameI, FrameS, FrameU} {
		_, err := BuildFrame(ft, nil, addr, uiControl, 1)
		assertCode(t, err, InvalidParam)
	}
}

func TestBuildFrame_RejectsOversizedInfo(t *testing.T) {
	addr := testAddr(t)
	_, err := BuildFrame(FrameUI, make([]byte, MaxInfoLen+1), addr, uiControl, 1)
	assertCode(t, err, InvalidParam)
}

func TestBuildFrame_RejectsBadControlLen(t *testing.T) {
	addr := testAddr(t)
	_, err := BuildFrame(FrameUI, nil, addr, uiControl, 3)
	assertCode(t, err, InvalidParam)
}
