package matrix

import (
	"encoding/binary"

	"github.com/parsat-ground/ax25link/pkg/ax25"
)

// DefaultChunkSize is the target payload bytes per fragment (spec.md §6's
// MATRIX_CHUNK_SIZE default), before the 11-byte metadata header.
const DefaultChunkSize = 200

// DefaultMaxRows and DefaultMaxCols are the dimension ceilings spec.md §6
// names as MATRIX_MAX_ROWS/MATRIX_MAX_COLS. Callers that load MatrixConfig
// pass its MaxRows/MaxCols through instead of these.
const (
	DefaultMaxRows = 1000
	DefaultMaxCols = 1000
)

// maxChunkDataSize is the hard ceiling: the UI frame's 240-byte information
// field minus the 11-byte metadata header.
const maxChunkDataSize = ax25.MaxInfoLen - MetadataLen

// chunkDataSize clamps a requested chunk size to the wire ceiling, applying
// the default when size is zero or negative.
func chunkDataSize(size int) int {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if size > maxChunkDataSize {
		size = maxChunkDataSize
	}
	return size
}

// Fragment splits a flat image of rows*cols*elementSize bytes into ordered
// chunks, each prefixed with an 11-byte metadata header and encoded through
// codec into a UI frame, then emits the whole run as a buffer of
// [u16 big-endian length][wire frame] units. chunkSize <= 0 selects
// DefaultChunkSize; it is clamped to the wire ceiling regardless. maxRows
// and maxCols reject oversized matrices outright (spec.md §6's
// MATRIX_MAX_ROWS/MATRIX_MAX_COLS); pass <= 0 to fall back to
// DefaultMaxRows/DefaultMaxCols.
//
// It returns the concatenated fragment stream and the chunk count.
func Fragment(codec *ax25.Codec, img []byte, rows, cols, elementSize, chunkSize, maxRows, maxCols int) ([]byte, int, error) {
	if rows <= 0 || cols <= 0 || elementSize <= 0 {
		return nil, 0, newError(InvalidParam, "rows, cols, and elementSize must be positive", nil)
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if maxCols <= 0 {
		maxCols = DefaultMaxCols
	}
	if rows > maxRows || cols > maxCols {
		return nil, 0, newError(InvalidParam, "matrix dimensions exceed configured max_rows/max_cols", nil)
	}
	total := rows * cols * elementSize
	if len(img) != total {
		return nil, 0, newError(InvalidParam, "image length does not match rows*cols*elementSize", nil)
	}

	dataSize := chunkDataSize(chunkSize)
	chunks := (total + dataSize - 1) / dataSize
	if chunks == 0 {
		chunks = 1 // a zero-byte image still produces one empty, header-only chunk
	}

	out := make([]byte, 0, chunks*(2+16+MetadataLen+dataSize))
	offset := 0

	for i := 0; i < chunks; i++ {
		remaining := total - offset
		dataLen := remaining
		if dataLen > dataSize {
			dataLen = dataSize
		}

		meta := Metadata{
			TotalChunks: uint16(chunks),
			ChunkIndex:  uint16(i),
			Rows:        uint16(rows),
			Cols:        uint16(cols),
			DataLen:     uint16(dataLen),
			ElementSize: uint8(elementSize),
		}
		header := meta.Encode()

		info := make([]byte, MetadataLen+dataLen)
		copy(info, header[:])
		copy(info[MetadataLen:], img[offset:offset+dataLen])

		wire, err := codec.Encode(info)
		if err != nil {
			return nil, 0, err
		}

		var lenPrefix [2]byte
		binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(wire)))
		out = append(out, lenPrefix[:]...)
		out = append(out, wire...)

		offset += dataLen
	}

	return out, chunks, nil
}
