package models

import (
	"testing"
	"time"
)

func TestQuestionTimerPredicates(t *testing.T) {
	minutes := func(m int) *int { return &m }
	now := time.Now().UTC()
	later := now.Add(10 * time.Minute)

	tests := []struct {
		name        string
		question    Question
		hasTimer    bool
		timerActive bool
	}{
		{
			name:     "no timer configured",
			question: Question{},
		},
		{
			name:     "zero duration counts as no timer",
			question: Question{TimerDurationMinutes: minutes(0)},
		},
		{
			name:     "configured but never started",
			question: Question{TimerDurationMinutes: minutes(10)},
			hasTimer: true,
		},
		{
			name: "started countdown",
			question: Question{
				TimerDurationMinutes: minutes(10),
				TimerStartedAt:       &now,
				TimerExpiresAt:       &later,
			},
			hasTimer:    true,
			timerActive: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.question.HasTimer(); got != tt.hasTimer {
				t.Errorf("HasTimer() = %v, want %v", got, tt.hasTimer)
			}
			if got := tt.question.TimerRunning(); got != tt.timerActive {
				t.Errorf("TimerRunning() = %v, want %v", got, tt.timerActive)
			}
		})
	}
}
