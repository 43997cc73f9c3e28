package activation

import (
	"testing"
	"time"

	"github.com/agorahq/agora/go/internal/models"
)

func TestComputeExpiresAt(t *testing.T) {
	started := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	got := computeExpiresAt(started, 10, 0)
	if want := started.Add(10 * time.Minute); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = computeExpiresAt(started, 10, 15)
	if want := started.Add(25 * time.Minute); !got.Equal(want) {
		t.Fatalf("with extensions: got %v, want %v", got, want)
	}
}

func TestTimerStateFor(t *testing.T) {
	started := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	expires := started.Add(10 * time.Minute)
	duration := 10
	q := &models.Question{
		TimerDurationMinutes: &duration,
		TimerStartedAt:       &started,
		TimerExpiresAt:       &expires,
	}

	state := timerStateFor(q, started.Add(4*time.Minute))
	if state == nil {
		t.Fatal("expected a timer state")
	}
	if state.RemainingSeconds != 6*60 {
		t.Fatalf("remaining = %d, want %d", state.RemainingSeconds, 6*60)
	}
	if state.Expired {
		t.Fatal("should not be expired")
	}

	state = timerStateFor(q, expires)
	if !state.Expired || state.RemainingSeconds != 0 {
		t.Fatalf("at the deadline: got %+v", state)
	}

	state = timerStateFor(q, expires.Add(time.Hour))
	if !state.Expired || state.RemainingSeconds != 0 {
		t.Fatalf("past the deadline: got %+v", state)
	}
}

func TestTimerStateForUnstarted(t *testing.T) {
	duration := 10
	if state := timerStateFor(&models.Question{TimerDurationMinutes: &duration}, time.Now()); state != nil {
		t.Fatalf("unstarted timer should yield nil, got %+v", state)
	}
	if state := timerStateFor(&models.Question{}, time.Now()); state != nil {
		t.Fatalf("timerless question should yield nil, got %+v", state)
	}
}
