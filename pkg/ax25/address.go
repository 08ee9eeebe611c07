package ax25

import "strings"

// AddressFieldLen is the fixed wire length of the two-address field: one
// source/destination pair, no digipeaters.
const AddressFieldLen = 14

// Station identifies one end of a link by callsign and SSID.
type Station struct {
	Callsign string
	SSID     int
}

func (s Station) validate() error {
	if s.SSID < 0 || s.SSID > 15 {
		return newError(InvalidParam, "ssid out of range 0-15", nil)
	}
	if len(s.Callsign) < 1 || len(s.Callsign) > 6 {
		return newError(InvalidParam, "callsign must be 1-6 characters", nil)
	}
	return nil
}

// BuildAddressField encodes the 14-byte AX.25 address field: destination
// first, then source. Each callsign byte is shifted left by 1 and
// space-padded to 6 characters; the destination SSID byte carries the
// reserved bits 0x60, and the source SSID byte additionally sets bit 0 to
// mark end-of-address-list.
//
// dest and source are written into their own slots explicitly — a known
// revision of the reference implementation wrote the destination callsign
// into the source slot too, a bug that a symmetric round-trip test cannot
// catch. Fixed here by construction: each Station is read exactly once.
func BuildAddressField(dest, source Station) ([AddressFieldLen]byte, error) {
	var out [AddressFieldLen]byte

	if err := dest.validate(); err != nil {
		return out, err
	}
	if err := source.validate(); err != nil {
		return out, err
	}

	writeCallsignSlot(out[0:7], dest, false)
	writeCallsignSlot(out[7:14], source, true)

	return out, nil
}

// writeCallsignSlot writes one 7-byte (6 callsign + 1 SSID) slot. last marks
// the final address in the list (source, here) per AX.25 §3.12.
func writeCallsignSlot(slot []byte, s Station, last bool) {
	cs := strings.ToUpper(s.Callsign)
	for i := 0; i < 6; i++ {
		c := byte(' ')
		if i < len(cs) {
			c = cs[i]
		}
		slot[i] = c << 1
	}

	ssidByte := byte((s.SSID&0x0F)<<1) | 0x60
	if last {
		ssidByte |= 0x01
	}
	slot[6] = ssidByte
}
