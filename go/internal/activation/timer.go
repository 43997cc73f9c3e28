package activation

import (
	"time"

	"github.com/agorahq/agora/go/internal/gateway"
	"github.com/agorahq/agora/go/internal/models"
)

// computeExpiresAt derives the countdown deadline from its start time.
// Extensions fold into the same deadline rather than chaining timers.
func computeExpiresAt(startedAt time.Time, durationMinutes, extendedMinutes int) time.Time {
	return startedAt.Add(time.Duration(durationMinutes+extendedMinutes) * time.Minute)
}

// timerStateFor renders a question's countdown as of now. Expiry is
// derived here at read time; nothing is written back when a countdown
// crosses its deadline. Returns nil when the question has no timer
// configured or the countdown was never started.
func timerStateFor(q *models.Question, now time.Time) *gateway.TimerState {
	if !q.HasTimer() || !q.TimerRunning() {
		return nil
	}

	remaining := int(q.TimerExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	return &gateway.TimerState{
		QuestionID:       q.ID.String(),
		DurationMinutes:  *q.TimerDurationMinutes,
		ExtendedMinutes:  q.TimerExtendedMinutes,
		StartedAt:        q.TimerStartedAt,
		ExpiresAt:        q.TimerExpiresAt,
		RemainingSeconds: remaining,
		Expired:          !now.Before(*q.TimerExpiresAt),
	}
}
