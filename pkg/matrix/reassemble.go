package matrix

import (
	"encoding/binary"

	"github.com/parsat-ground/ax25link/pkg/ax25"
)

// frameHeaderLen is the address+control+PID prefix of every decoded AX.25
// frame (pkg/ax25's unexported headerLen, re-derived here since the
// information field starts right after it).
const frameHeaderLen = ax25.AddressFieldLen + 2

// maxFragmentLen bounds a single length-prefixed fragment read from a
// stream: generous enough for any UI frame this codec can produce, tight
// enough to reject garbage length prefixes outright.
const maxFragmentLen = 500

// Reassemble walks a fragment stream produced by Fragment, decoding each
// length-prefixed wire frame through codec and reconstructing the original
// flat image. It validates that every chunk agrees on rows, cols, and
// elementSize, and that chunks arrive in index order 0..totalChunks-1.
// maxRows and maxCols reject a reassembled matrix whose declared dimensions
// exceed the configured ceiling (spec.md §6's
// MATRIX_MAX_ROWS/MATRIX_MAX_COLS); pass <= 0 to fall back to
// DefaultMaxRows/DefaultMaxCols.
func Reassemble(codec *ax25.Codec, stream []byte, totalChunks, maxRows, maxCols int) (img []byte, rows, cols, elementSize int, err error) {
	if totalChunks <= 0 {
		return nil, 0, 0, 0, newError(InvalidParam, "totalChunks must be positive", nil)
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if maxCols <= 0 {
		maxCols = DefaultMaxCols
	}

	pos := 0
	out := make([]byte, 0, len(stream))

	for i := 0; i < totalChunks; i++ {
		if pos+2 > len(stream) {
			return nil, 0, 0, 0, newError(DecodeFail, "truncated fragment length prefix", nil)
		}
		length := int(binary.BigEndian.Uint16(stream[pos : pos+2]))
		pos += 2

		if length <= 0 || length > maxFragmentLen {
			return nil, 0, 0, 0, newError(InvalidParam, "fragment length out of bounds", nil)
		}
		if pos+length > len(stream) {
			return nil, 0, 0, 0, newError(DecodeFail, "truncated fragment frame", nil)
		}

		wire := stream[pos : pos+length]
		pos += length

		decoded, decErr := codec.Recv(wire)
		if decErr != nil {
			return nil, 0, 0, 0, decErr
		}
		if len(decoded) < frameHeaderLen+MetadataLen {
			return nil, 0, 0, 0, newError(DecodeFail, "decoded frame shorter than header and metadata", nil)
		}

		info := decoded[frameHeaderLen:]
		meta, metaErr := DecodeMetadata(info)
		if metaErr != nil {
			return nil, 0, 0, 0, metaErr
		}

		if int(meta.ChunkIndex) != i {
			return nil, 0, 0, 0, newError(DecodeFail, "chunk arrived out of order", nil)
		}

		if i == 0 {
			rows, cols, elementSize = int(meta.Rows), int(meta.Cols), int(meta.ElementSize)
			if rows > maxRows || cols > maxCols {
				return nil, 0, 0, 0, newError(InvalidParam, "matrix dimensions exceed configured max_rows/max_cols", nil)
			}
		} else if int(meta.Rows) != rows || int(meta.Cols) != cols || int(meta.ElementSize) != elementSize {
			return nil, 0, 0, 0, newError(DecodeFail, "matrix dimensions changed across chunks", nil)
		}

		dataLen := int(meta.DataLen)
		if MetadataLen+dataLen > len(info) {
			return nil, 0, 0, 0, newError(DecodeFail, "metadata dataLen exceeds information field", nil)
		}
		out = append(out, info[MetadataLen:MetadataLen+dataLen]...)
	}

	return out, rows, cols, elementSize, nil
}
