// Package matrix fragments a flat rows x cols byte image of a fixed element
// width across many AX.25 UI frames, and reassembles it on the other end. It
// builds directly on pkg/ax25; the wire format is an 11-byte big-endian
// metadata header prefixed to each fragment's information field, plus a
// 2-byte big-endian length prefix per fragment in the concatenated stream.
package matrix

import "encoding/binary"

// MetadataLen is the fixed byte length of the per-fragment header.
const MetadataLen = 11

// Metadata is the fixed-layout header written as the first MetadataLen
// bytes of every fragment's information field.
type Metadata struct {
	TotalChunks uint16
	ChunkIndex  uint16
	Rows        uint16
	Cols        uint16
	DataLen     uint16
	ElementSize uint8
}

// Encode writes m in big-endian wire order.
func (m Metadata) Encode() [MetadataLen]byte {
	var out [MetadataLen]byte
	binary.BigEndian.PutUint16(out[0:2], m.TotalChunks)
	binary.BigEndian.PutUint16(out[2:4], m.ChunkIndex)
	binary.BigEndian.PutUint16(out[4:6], m.Rows)
	binary.BigEndian.PutUint16(out[6:8], m.Cols)
	binary.BigEndian.PutUint16(out[8:10], m.DataLen)
	out[10] = m.ElementSize
	return out
}

// DecodeMetadata parses a Metadata header from the front of an information
// field. b must be at least MetadataLen bytes.
func DecodeMetadata(b []byte) (Metadata, error) {
	if len(b) < MetadataLen {
		return Metadata{}, newError(DecodeFail, "information field shorter than metadata header", nil)
	}
	return Metadata{
		TotalChunks: binary.BigEndian.Uint16(b[0:2]),
		ChunkIndex:  binary.BigEndian.Uint16(b[2:4]),
		Rows:        binary.BigEndian.Uint16(b[4:6]),
		Cols:        binary.BigEndian.Uint16(b[6:8]),
		DataLen:     binary.BigEndian.Uint16(b[8:10]),
		ElementSize: b[10],
	}, nil
}
