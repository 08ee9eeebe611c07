package ax25

import "github.com/parsat-ground/ax25link/pkg/crc"

// FrameType enumerates the AX.25 control-field frame classes. Only UI is
// implemented; the others exist so callers get a clear InvalidParam instead
// of silently mis-framed output.
type FrameType int

const (
	FrameI FrameType = iota
	FrameS
	FrameU
	FrameUI
)

// MaxInfoLen is the largest information field this codec accepts.
const MaxInfoLen = 240

// PID is the AX.25 protocol identifier meaning "no layer 3", emitted on
// I and UI frames.
const PID byte = 0xF0

// FCSLen is the wire length of the frame check sequence.
const FCSLen = 2

// BuildFrame assembles a complete unstuffed in-memory frame: leading flag,
// address field, control field, PID (UI/I only), information field, FCS
// (MSB first), trailing flag. The FCS covers everything between the flags;
// the flags themselves are not covered.
//
// The control field is written little-endian (low byte first); the FCS is
// written big-endian (high byte first). This asymmetry is intentional AX.25
// wire behavior, not an inconsistency to "fix".
func BuildFrame(ft FrameType, info []byte, addr [AddressFieldLen]byte, ctrlValue uint16, ctrlLen int) ([]byte, error) {
	if ft != FrameUI {
		return nil, newError(InvalidParam, "only UI frames are implemented", nil)
	}
	if len(info) > MaxInfoLen {
		return nil, newError(InvalidParam, "information field exceeds 240 bytes", nil)
	}
	if ctrlLen != 1 && ctrlLen != 2 {
		return nil, newError(InvalidParam, "control field length must be 1 or 2", nil)
	}

	body := make([]byte, 0, AddressFieldLen+2+1+len(info))
	body = append(body, addr[:]...)

	if ctrlLen == 2 {
		body = append(body, byte(ctrlValue), byte(ctrlValue>>8))
	} else {
		body = append(body, byte(ctrlValue))
	}

	// PID is emitted for I and UI frames only; since only UI is reachable
	// here, it is always emitted.
	body = append(body, PID)
	body = append(body, info...)

	fcs := crc.Calc(body)

	frame := make([]byte, 0, len(body)+4)
	frame = append(frame, flagByte)
	frame = append(frame, body...)
	frame = append(frame, byte(fcs>>8), byte(fcs))
	frame = append(frame, flagByte)

	return frame, nil
}

const flagByte = 0x7E
