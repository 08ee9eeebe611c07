// Command ax25demo exercises the codec and matrix fragmentation packages
// directly against a synthetic image, without the daemon's store, metrics,
// or monitor stack. It is a quick manual check that a given station pair
// and chunk size round-trip correctly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/parsat-ground/ax25link/pkg/ax25"
	"github.com/parsat-ground/ax25link/pkg/matrix"
)

func main() {
	localCallsign := pflag.String("local", "GROUND", "local station callsign")
	localSSID := pflag.Int("local-ssid", 0, "local station SSID (0-15)")
	remoteCallsign := pflag.String("remote", "PARSAT", "remote station callsign")
	remoteSSID := pflag.Int("remote-ssid", 1, "remote station SSID (0-15)")
	rows := pflag.Int("rows", 8, "matrix rows")
	cols := pflag.Int("cols", 8, "matrix columns")
	elementSize := pflag.Int("element-size", 1, "bytes per matrix element")
	chunkSize := pflag.Int("chunk-size", matrix.DefaultChunkSize, "fragment payload size, clamped to the wire ceiling")
	maxRows := pflag.Int("max-rows", matrix.DefaultMaxRows, "reject matrices with more rows than this")
	maxCols := pflag.Int("max-cols", matrix.DefaultMaxCols, "reject matrices with more columns than this")
	pflag.Parse()

	codec, err := ax25.NewCodec(
		ax25.Station{Callsign: *localCallsign, SSID: *localSSID},
		ax25.Station{Callsign: *remoteCallsign, SSID: *remoteSSID},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building codec: %v\n", err)
		os.Exit(1)
	}

	total := *rows * *cols * *elementSize
	img := make([]byte, total)
	for i := range img {
		img[i] = byte(i)
	}

	stream, chunks, err := matrix.Fragment(codec, img, *rows, *cols, *elementSize, *chunkSize, *maxRows, *maxCols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fragmenting matrix: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("fragmented %d bytes into %d chunks (%d bytes on the wire)\n", total, chunks, len(stream))

	out, gotRows, gotCols, gotElementSize, err := matrix.Reassemble(codec, stream, chunks, *maxRows, *maxCols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reassembling matrix: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("reassembled %dx%d matrix, element size %d, %d bytes\n", gotRows, gotCols, gotElementSize, len(out))

	if len(out) != len(img) {
		fmt.Fprintf(os.Stderr, "mismatch: expected %d bytes, got %d\n", len(img), len(out))
		os.Exit(1)
	}
	for i := range img {
		if out[i] != img[i] {
			fmt.Fprintf(os.Stderr, "mismatch at byte %d: expected %02x, got %02x\n", i, img[i], out[i])
			os.Exit(1)
		}
	}
	fmt.Println("round trip OK")
}
