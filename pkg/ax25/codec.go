// Package ax25 implements the AX.25 v2.2 UI-frame codec: HDLC framing with
// bit stuffing, CRC-16-CCITT FCS, and the fixed two-address field. It mixes
// three representations — byte buffer, one-bit-per-byte bitstream, and
// packed bitstream — to go from a caller's payload to wire bytes and back.
package ax25

import (
	"github.com/parsat-ground/ax25link/pkg/crc"
	"github.com/parsat-ground/ax25link/pkg/hdlc"
)

// uiControl is the AX.25 control byte for an Unnumbered Information frame.
const uiControl = 0x03

// headerLen is the byte length of address + control + PID in a decoded
// frame: 14 + 1 + 1. Callers skip this many bytes of a Recv result to reach
// the payload.
const headerLen = AddressFieldLen + 1 + 1

// Codec encodes outbound UI frames from Local (source) to Remote
// (destination) and decodes inbound UI frames from either peer. Per
// spec.md's Design Notes, identity is injected at construction rather than
// compiled in.
type Codec struct {
	Local  Station
	Remote Station
}

// NewCodec validates the two station identities and returns a Codec ready
// to encode frames from local to remote.
func NewCodec(local, remote Station) (*Codec, error) {
	if err := local.validate(); err != nil {
		return nil, err
	}
	if err := remote.validate(); err != nil {
		return nil, err
	}
	return &Codec{Local: local, Remote: remote}, nil
}

// Encode builds a complete HDLC-framed, bit-stuffed, packed UI frame
// carrying payload, addressed to c.Remote (destination) from c.Local
// (source) — matching the reference convention of ground-as-destination,
// satellite-as-source.
func (c *Codec) Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxInfoLen {
		return nil, newError(InvalidParam, "payload exceeds 240 bytes", nil)
	}

	addr, err := BuildAddressField(c.Remote, c.Local)
	if err != nil {
		return nil, err
	}

	frame, err := BuildFrame(FrameUI, payload, addr, uiControl, 1)
	if err != nil {
		return nil, err
	}

	body := frame[1 : len(frame)-1] // strip leading/trailing flag before stuffing
	stuffed, err := hdlc.Stuff(body)
	if err != nil {
		return nil, newError(EncodeFail, "bit stuffing aborted on unstuffable run", err)
	}

	bits := make([]byte, 0, len(hdlc.FlagBits())*2+len(stuffed))
	bits = append(bits, hdlc.FlagBits()...)
	bits = append(bits, stuffed...)
	bits = append(bits, hdlc.FlagBits()...)

	return hdlc.Pack(bits), nil
}

// Recv decodes a wire frame, verifies its FCS, and returns the reconstructed
// bytes minus the trailing FCS: address field, control byte, PID, and
// information field. Callers skip headerLen (16) bytes to reach the payload.
func (c *Codec) Recv(wire []byte) ([]byte, error) {
	bits := hdlc.Unpack(wire)

	start, err := hdlc.ScanFlag(bits, 0)
	if err != nil {
		return nil, newError(DecodeFail, "no leading flag found", err)
	}

	body, _, err := hdlc.Unstuff(bits, start+8)
	if err != nil {
		return nil, newError(DecodeFail, "bit stream desynchronized before trailing flag", err)
	}

	if len(body) < headerLen+FCSLen {
		return nil, newError(DecodeFail, "fewer than 18 bytes (header and FCS) reconstructed", nil)
	}

	payload := body[:len(body)-FCSLen]
	gotHi, gotLo := body[len(body)-2], body[len(body)-1]
	got := uint16(gotHi)<<8 | uint16(gotLo)

	if want := crc.Calc(payload); want != got {
		return nil, newError(FCSMismatch, "FCS check failed", nil)
	}

	return payload, nil
}

// Header is the parsed form of the fixed 16-byte AX.25 header a successful
// Recv returns as a prefix of its result.
type Header struct {
	Destination Station
	Source      Station
	Control     byte
	PID         byte
}

// ParseHeader extracts the address/control/PID header from a decoded frame
// (the bytes returned by Recv). It is a convenience on top of the wire
// contract, not part of the core decode path.
func ParseHeader(decoded []byte) (Header, error) {
	if len(decoded) < headerLen {
		return Header{}, newError(InvalidParam, "decoded frame shorter than header", nil)
	}
	dest, destSSID := parseCallsignSlot(decoded[0:7])
	src, srcSSID := parseCallsignSlot(decoded[7:14])
	return Header{
		Destination: Station{Callsign: dest, SSID: destSSID},
		Source:      Station{Callsign: src, SSID: srcSSID},
		Control:     decoded[14],
		PID:         decoded[15],
	}, nil
}

func parseCallsignSlot(slot []byte) (string, int) {
	buf := make([]byte, 0, 6)
	for _, b := range slot[:6] {
		c := b >> 1
		if c == ' ' {
			continue
		}
		buf = append(buf, c)
	}
	ssid := int((slot[6] >> 1) & 0x0F)
	return string(buf), ssid
}
