package activation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/events"
	"github.com/agorahq/agora/go/internal/gateway"
	"github.com/agorahq/agora/go/internal/models"
	"github.com/agorahq/agora/go/internal/questions"
)

const (
	// MinExtendMinutes/MaxExtendMinutes bound a single extension.
	MinExtendMinutes = 1
	MaxExtendMinutes = 120

	defaultStoreTimeout = 5 * time.Second
)

// QuestionStore is the slice of the questions repository the coordinator
// drives. ActivateExclusive must atomically deactivate every other
// question in the session while activating the target.
type QuestionStore interface {
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (*models.Question, error)
	NextOrder(ctx context.Context, sessionID uuid.UUID) (int, error)
	CreateQuestion(ctx context.Context, req questions.CreateQuestionRequest) (*models.Question, error)
	ActivateExclusive(ctx context.Context, sessionID, questionID uuid.UUID, startedAt, expiresAt *time.Time) (*models.Question, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ExtendTimer(ctx context.Context, id uuid.UUID, additionalMinutes int) (*models.Question, error)
}

// Broadcaster fans a session event out to connected endpoints. Delivery
// is best effort; the coordinator never learns whether anyone received it.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event *gateway.SessionEvent)
}

// Coordinator owns the live/idle state machine for questions: exclusive
// activation within a session, countdown start and extension, and
// duplication across sessions. State changes persist first, then
// broadcast.
type Coordinator struct {
	store        QuestionStore
	broadcaster  Broadcaster
	clock        clockwork.Clock
	locks        *sessionLocks
	storeTimeout time.Duration
}

func NewCoordinator(store QuestionStore, broadcaster Broadcaster, clock clockwork.Clock) *Coordinator {
	return &Coordinator{
		store:        store,
		broadcaster:  broadcaster,
		clock:        clock,
		locks:        newSessionLocks(),
		storeTimeout: defaultStoreTimeout,
	}
}

// SetBroadcaster wires the gateway in after construction. The gateway
// needs the coordinator as its state provider, so one of the two has to
// be bound late.
func (c *Coordinator) SetBroadcaster(b Broadcaster) {
	c.broadcaster = b
}

// SetActive transitions a question to live or idle. Activating a
// question atomically deactivates any other live question in the same
// session, so at most one is live at a time. A timer-bearing question
// gets its countdown started on the first activation only; re-activating
// keeps the original deadline.
func (c *Coordinator) SetActive(ctx context.Context, sessionID, questionID uuid.UUID, active bool) (*models.Question, error) {
	unlock := c.locks.lock(sessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	q, err := c.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.SessionID != sessionID {
		return nil, apperrors.New(apperrors.NotFound, "question %s not found in session %s", questionID, sessionID)
	}

	if !active {
		updated, err := c.store.Deactivate(ctx, questionID)
		if err != nil {
			return nil, err
		}
		c.broadcast(sessionID, gateway.EventTypeQuestionActivated, events.QuestionActivatedPayload{Question: *updated})
		return updated, nil
	}

	var startedAt, expiresAt *time.Time
	timerFresh := false
	if q.HasTimer() && !q.TimerRunning() {
		now := c.clock.Now().UTC()
		exp := computeExpiresAt(now, *q.TimerDurationMinutes, q.TimerExtendedMinutes)
		startedAt, expiresAt = &now, &exp
		timerFresh = true
	}

	updated, err := c.store.ActivateExclusive(ctx, sessionID, questionID, startedAt, expiresAt)
	if err != nil {
		return nil, err
	}

	c.broadcast(sessionID, gateway.EventTypeQuestionActivated, events.QuestionActivatedPayload{Question: *updated})
	if timerFresh && updated.TimerExpiresAt != nil {
		c.broadcast(sessionID, gateway.EventTypeQuestionTimerStarted, events.QuestionTimerStartedPayload{
			QuestionID:      updated.ID,
			ExpiresAt:       *updated.TimerExpiresAt,
			DurationMinutes: *updated.TimerDurationMinutes,
		})
	}
	return updated, nil
}

// ExtendTimer pushes a running countdown's deadline out by
// additionalMinutes. The question must be live with its countdown
// started; an expired deadline can still be extended, which revives the
// countdown.
func (c *Coordinator) ExtendTimer(ctx context.Context, questionID uuid.UUID, additionalMinutes int) (*models.Question, error) {
	if additionalMinutes < MinExtendMinutes || additionalMinutes > MaxExtendMinutes {
		return nil, apperrors.New(apperrors.Validation, "additional minutes must be between %d and %d", MinExtendMinutes, MaxExtendMinutes)
	}

	q, err := c.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	unlock := c.locks.lock(q.SessionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	if !q.HasTimer() {
		return nil, apperrors.New(apperrors.Validation, "question %s has no timer configured", questionID)
	}
	if !q.IsActive || !q.TimerRunning() {
		return nil, apperrors.New(apperrors.PreconditionFailed, "question %s is not live with a running timer", questionID)
	}

	// The store re-checks live+started in the same statement, so a
	// deactivation that slipped in between surfaces as a conflict.
	updated, err := c.store.ExtendTimer(ctx, questionID, additionalMinutes)
	if err != nil {
		return nil, err
	}

	if updated.TimerExpiresAt != nil {
		c.broadcast(updated.SessionID, gateway.EventTypeQuestionTimerExtended, events.QuestionTimerExtendedPayload{
			QuestionID:   updated.ID,
			NewExpiresAt: *updated.TimerExpiresAt,
		})
	}
	return updated, nil
}

// Duplicate copies a question's content into a target session. Runtime
// state never travels: the copy starts idle with no countdown and zero
// extensions, and records where it came from. A nil order appends after
// the target session's last question.
func (c *Coordinator) Duplicate(ctx context.Context, questionID, targetSessionID uuid.UUID, order *int, createdBy *string) (*models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	src, err := c.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	ord := 0
	if order != nil {
		if *order < 1 {
			return nil, apperrors.New(apperrors.Validation, "order must be positive")
		}
		ord = *order
	} else {
		ord, err = c.store.NextOrder(ctx, targetSessionID)
		if err != nil {
			return nil, err
		}
	}

	copied, err := c.store.CreateQuestion(ctx, questions.CreateQuestionRequest{
		SessionID:               targetSessionID,
		Order:                   ord,
		PromptText:              src.PromptText,
		TimerDurationMinutes:    src.TimerDurationMinutes,
		Notes:                   src.Notes,
		CreatedBy:               createdBy,
		OriginalQuestionID:      &src.ID,
		DuplicatedFromSessionID: &src.SessionID,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("question_id", src.ID.String()).
		Str("copy_id", copied.ID.String()).
		Str("target_session_id", targetSessionID.String()).
		Msg("duplicated question")
	return copied, nil
}

// TimerStatus reports a question's countdown as of now, deriving expiry
// rather than reading a stored flag.
func (c *Coordinator) TimerStatus(ctx context.Context, questionID uuid.UUID) (*gateway.TimerState, error) {
	q, err := c.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !q.HasTimer() {
		return nil, apperrors.New(apperrors.Validation, "question %s has no timer configured", questionID)
	}
	return timerStateFor(q, c.clock.Now().UTC()), nil
}

// GetSessionState assembles the catch-up snapshot a reconnecting
// endpoint needs: the live question, if any, with its current countdown.
func (c *Coordinator) GetSessionState(ctx context.Context, sessionID uuid.UUID) (*gateway.SessionStateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	active, err := c.store.GetActiveQuestion(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state := &gateway.SessionStateResponse{SessionID: sessionID.String()}
	if active != nil {
		state.ActiveQuestion = active
		state.Timer = timerStateFor(active, c.clock.Now().UTC())
	}
	return state, nil
}

func (c *Coordinator) getQuestion(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	return c.store.GetQuestion(ctx, questionID)
}

func (c *Coordinator) broadcast(sessionID uuid.UUID, eventType gateway.EventType, payload any) {
	if c.broadcaster == nil {
		return
	}
	event, err := gateway.NewSessionEvent(sessionID, eventType, payload)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to build session event")
		return
	}
	c.broadcaster.BroadcastToSession(sessionID, event)
}
