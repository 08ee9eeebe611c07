package gateway

import (
	"os"
	"testing"
	"time"

	"github.com/parsat-ground/ax25link/pkg/ax25"
	"github.com/parsat-ground/ax25link/pkg/logger"
	"github.com/parsat-ground/ax25link/pkg/matrix"
	"github.com/parsat-ground/ax25link/pkg/metrics"
	"github.com/parsat-ground/ax25link/pkg/monitor"
	"github.com/parsat-ground/ax25link/pkg/store"
)

func testCodec(t *testing.T) *ax25.Codec {
	t.Helper()
	c, err := ax25.NewCodec(
		ax25.Station{Callsign: "GROUND", SSID: 0},
		ax25.Station{Callsign: "PARSAT", SSID: 1},
	)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func testIngest(t *testing.T, codec *ax25.Codec) (*Ingest, func()) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error"})

	dbPath := "/tmp/test_gateway_ingest.db"
	os.Remove(dbPath)
	db, err := store.NewDB(store.Config{Path: dbPath}, log)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	frames := store.NewFrameRepository(db.GetDB())
	sessions := store.NewMatrixSessionRepository(db.GetDB())
	mc := metrics.NewCollector()
	hub := monitor.NewHub(log)

	ing := NewIngest(codec, frames, sessions, mc, hub, log, matrix.DefaultMaxRows, matrix.DefaultMaxCols)
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return ing, cleanup
}

func TestIngest_HandleWireFrame_PlainFrame(t *testing.T) {
	codec := testCodec(t)
	ing, cleanup := testIngest(t, codec)
	defer cleanup()

	wire, err := codec.Encode([]byte("hello ground"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if err := ing.HandleWireFrame(wire); err != nil {
		t.Fatalf("HandleWireFrame: %v", err)
	}
	if ing.ActiveSessionCount() != 0 {
		t.Errorf("plain frame should not open a matrix session")
	}
}

func TestIngest_HandleWireFrame_RejectsCorruptFrame(t *testing.T) {
	codec := testCodec(t)
	ing, cleanup := testIngest(t, codec)
	defer cleanup()

	wire, err := codec.Encode([]byte("telemetry"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	wire[len(wire)/2] ^= 0xFF

	if err := ing.HandleWireFrame(wire); err == nil {
		t.Fatal("expected an error decoding a corrupted frame")
	}
}

func TestIngest_HandleWireFrame_RejectsFragmentBeyondConfiguredMax(t *testing.T) {
	codec := testCodec(t)
	ing, cleanup := testIngest(t, codec)
	defer cleanup()
	ing.maxRows = 4
	ing.maxCols = 4

	img := make([]byte, 5*5)
	stream, _, err := matrix.Fragment(codec, img, 5, 5, 1, 0, 0, 0)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	length := int(stream[0])<<8 | int(stream[1])
	wire := stream[2 : 2+length]

	if err := ing.HandleWireFrame(wire); err != nil {
		t.Fatalf("HandleWireFrame: %v", err)
	}
	if ing.ActiveSessionCount() != 0 {
		t.Errorf("fragment declaring dimensions beyond max_rows/max_cols should not open a session, got %d", ing.ActiveSessionCount())
	}
}

func TestIngest_HandleWireFrame_FoldsMatrixFragments(t *testing.T) {
	codec := testCodec(t)
	ing, cleanup := testIngest(t, codec)
	defer cleanup()

	img := make([]byte, 5*5)
	for i := range img {
		img[i] = byte(i)
	}
	stream, chunks, err := matrix.Fragment(codec, img, 5, 5, 1, 10, 0, 0)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}

	offset := 0
	for i := 0; i < chunks; i++ {
		length := int(stream[offset])<<8 | int(stream[offset+1])
		offset += 2
		wire := stream[offset : offset+length]
		offset += length

		if err := ing.HandleWireFrame(wire); err != nil {
			t.Fatalf("HandleWireFrame fragment %d: %v", i, err)
		}
		if i < chunks-1 && ing.ActiveSessionCount() != 1 {
			t.Errorf("expected one active session mid-stream, got %d", ing.ActiveSessionCount())
		}
	}

	if ing.ActiveSessionCount() != 0 {
		t.Errorf("expected session to close after the final chunk, got %d active", ing.ActiveSessionCount())
	}
}

func TestIngest_CleanupStale(t *testing.T) {
	codec := testCodec(t)
	ing, cleanup := testIngest(t, codec)
	defer cleanup()

	img := make([]byte, 5*5)
	stream, _, err := matrix.Fragment(codec, img, 5, 5, 1, 5, 0, 0)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}

	length := int(stream[0])<<8 | int(stream[1])
	wire := stream[2 : 2+length]
	if err := ing.HandleWireFrame(wire); err != nil {
		t.Fatalf("HandleWireFrame: %v", err)
	}
	if ing.ActiveSessionCount() != 1 {
		t.Fatalf("expected one active session, got %d", ing.ActiveSessionCount())
	}

	ing.CleanupStale(0)
	if ing.ActiveSessionCount() != 0 {
		t.Errorf("expected CleanupStale(0) to drop the in-flight session")
	}
	time.Sleep(1 * time.Millisecond)
}
