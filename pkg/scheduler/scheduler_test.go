package scheduler

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/observability"
)

// sweepRecorder records SweepAll calls. The embedded interface covers the
// operations the scheduler never touches.
type sweepRecorder struct {
	billing.Service

	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (s *sweepRecorder) SweepAll(now time.Time) (billing.SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, now)
	if s.err != nil {
		return billing.SweepSummary{}, s.err
	}
	return billing.SweepSummary{Processed: 1, SweptAt: now}, nil
}

func (s *sweepRecorder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

func TestStartRunsImmediateSweep(t *testing.T) {
	rec := &sweepRecorder{}
	sched := New(rec, "@hourly", testLogger())

	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Equal(t, 1, rec.callCount())
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	rec := &sweepRecorder{}
	sched := New(rec, "not a schedule", testLogger())

	err := sched.Start()
	require.Error(t, err)
	// The bad schedule is rejected before any sweep runs.
	assert.Equal(t, 0, rec.callCount())
}

func TestRunSweepSurvivesErrors(t *testing.T) {
	rec := &sweepRecorder{err: errors.New("storage offline")}
	sched := New(rec, "@hourly", testLogger())

	sched.RunSweep()
	sched.RunSweep()
	assert.Equal(t, 2, rec.callCount())
}

func TestStopWaitsForSchedule(t *testing.T) {
	rec := &sweepRecorder{}
	sched := New(rec, "@every 1h", testLogger())

	require.NoError(t, sched.Start())
	sched.Stop()

	// Only the startup sweep ran; the hourly tick never fired.
	assert.Equal(t, 1, rec.callCount())
}
