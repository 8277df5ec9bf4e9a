package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordersAreSafeAndCount(t *testing.T) {
	Init()
	Init() // second call is a no-op

	before := testutil.ToFloat64(ticksTotal)
	IncTick()
	IncTick()
	if got := testutil.ToFloat64(ticksTotal) - before; got != 2 {
		t.Fatalf("ticks delta: got %v, want 2", got)
	}

	ObserveTransition("standby", "purging", 3)
	if got := testutil.ToFloat64(transitionsTotal.WithLabelValues("standby", "purging")); got < 1 {
		t.Fatalf("transition counter not incremented: %v", got)
	}
	if got := testutil.ToFloat64(currentPhase); got != 3 {
		t.Fatalf("phase gauge: got %v, want 3", got)
	}

	ObserveDispatch("", 10*time.Millisecond)
	ObserveDispatch(ResultFailure, time.Second)
	IncDispatchSkipped("")
	if got := testutil.ToFloat64(dispatchTotal.WithLabelValues(ResultSkipped)); got < 1 {
		t.Fatalf("skipped counter not incremented: %v", got)
	}

	SetConsecutiveFailures(4)
	if got := testutil.ToFloat64(consecutiveFailures); got != 4 {
		t.Fatalf("failures gauge: got %v, want 4", got)
	}

	IncUpload(ResultSuccess)
	if got := testutil.ToFloat64(uploadsTotal.WithLabelValues(ResultSuccess)); got < 1 {
		t.Fatalf("upload counter not incremented: %v", got)
	}
}
