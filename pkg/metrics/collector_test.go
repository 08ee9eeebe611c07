package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()
	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
}

func TestCollector_FramesDecoded(t *testing.T) {
	c := NewCollector()
	c.FramesDecoded.WithLabelValues("PARSAT").Inc()
	c.FramesDecoded.WithLabelValues("PARSAT").Inc()

	if got := testutil.ToFloat64(c.FramesDecoded.WithLabelValues("PARSAT")); got != 2 {
		t.Errorf("FramesDecoded{PARSAT} = %v, want 2", got)
	}
}

func TestCollector_FramesRejected(t *testing.T) {
	c := NewCollector()
	c.FramesRejected.WithLabelValues("fcs_mismatch").Inc()

	if got := testutil.ToFloat64(c.FramesRejected.WithLabelValues("fcs_mismatch")); got != 1 {
		t.Errorf("FramesRejected{fcs_mismatch} = %v, want 1", got)
	}
}

func TestCollector_BytesAndFCSCounters(t *testing.T) {
	c := NewCollector()
	c.BytesDecoded.Add(1024)
	c.FCSFailures.Inc()

	if got := testutil.ToFloat64(c.BytesDecoded); got != 1024 {
		t.Errorf("BytesDecoded = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(c.FCSFailures); got != 1 {
		t.Errorf("FCSFailures = %v, want 1", got)
	}
}

func TestCollector_SessionGaugeTracksActive(t *testing.T) {
	c := NewCollector()
	c.SessionsStarted.Inc()
	c.SessionsActive.Inc()

	if got := testutil.ToFloat64(c.SessionsActive); got != 1 {
		t.Errorf("SessionsActive = %v, want 1", got)
	}

	c.SessionsActive.Dec()
	c.SessionsDone.Inc()

	if got := testutil.ToFloat64(c.SessionsActive); got != 0 {
		t.Errorf("SessionsActive = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.SessionsDone); got != 1 {
		t.Errorf("SessionsDone = %v, want 1", got)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			c.FramesDecoded.WithLabelValues("PARSAT").Inc()
			c.BytesDecoded.Add(100)
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if got := testutil.ToFloat64(c.FramesDecoded.WithLabelValues("PARSAT")); got != 10 {
		t.Errorf("FramesDecoded{PARSAT} = %v, want 10", got)
	}
}
