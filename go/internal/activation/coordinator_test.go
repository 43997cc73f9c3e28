package activation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/gateway"
	"github.com/agorahq/agora/go/internal/models"
	"github.com/agorahq/agora/go/internal/questions"
)

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*models.Question
	now       func() time.Time
}

func newFakeQuestionStore(now func() time.Time) *fakeQuestionStore {
	return &fakeQuestionStore{
		questions: make(map[uuid.UUID]*models.Question),
		now:       now,
	}
}

func (s *fakeQuestionStore) add(q *models.Question) *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	s.questions[q.ID] = q
	return q
}

func (s *fakeQuestionStore) CreateQuestion(ctx context.Context, req questions.CreateQuestionRequest) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := &models.Question{
		ID:                      uuid.New(),
		SessionID:               req.SessionID,
		Order:                   req.Order,
		PromptText:              req.PromptText,
		TimerDurationMinutes:    req.TimerDurationMinutes,
		OriginalQuestionID:      req.OriginalQuestionID,
		DuplicatedFromSessionID: req.DuplicatedFromSessionID,
		CreatedBy:               req.CreatedBy,
		Notes:                   req.Notes,
		CreatedAt:               s.now(),
		UpdatedAt:               s.now(),
	}
	s.questions[q.ID] = q
	copy := *q
	return &copy, nil
}

func (s *fakeQuestionStore) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "question %s not found", id)
	}
	copy := *q
	return &copy, nil
}

func (s *fakeQuestionStore) GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.SessionID == sessionID && q.IsActive {
			copy := *q
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeQuestionStore) NextOrder(ctx context.Context, sessionID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, q := range s.questions {
		if q.SessionID == sessionID && q.Order > max {
			max = q.Order
		}
	}
	return max + 1, nil
}

func (s *fakeQuestionStore) ActivateExclusive(ctx context.Context, sessionID, questionID uuid.UUID, startedAt, expiresAt *time.Time) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[questionID]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "question %s not found", questionID)
	}
	for _, other := range s.questions {
		if other.SessionID == sessionID && other.ID != questionID {
			other.IsActive = false
		}
	}
	q.IsActive = true
	if q.TimerStartedAt == nil && startedAt != nil {
		q.TimerStartedAt = startedAt
		q.TimerExpiresAt = expiresAt
	}
	copy := *q
	return &copy, nil
}

func (s *fakeQuestionStore) Deactivate(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "question %s not found", id)
	}
	q.IsActive = false
	copy := *q
	return &copy, nil
}

func (s *fakeQuestionStore) ExtendTimer(ctx context.Context, id uuid.UUID, additionalMinutes int) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "question %s not found", id)
	}
	if !q.IsActive || q.TimerStartedAt == nil {
		return nil, apperrors.New(apperrors.Conflict, "timer no longer running")
	}
	q.TimerExtendedMinutes += additionalMinutes
	exp := q.TimerExpiresAt.Add(time.Duration(additionalMinutes) * time.Minute)
	q.TimerExpiresAt = &exp
	copy := *q
	return &copy, nil
}

func (s *fakeQuestionStore) activeCount(sessionID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, q := range s.questions {
		if q.SessionID == sessionID && q.IsActive {
			count++
		}
	}
	return count
}

type captureBroadcaster struct {
	mu     sync.Mutex
	events []*gateway.SessionEvent
}

func (b *captureBroadcaster) BroadcastToSession(sessionID uuid.UUID, event *gateway.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBroadcaster) types() []gateway.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]gateway.EventType, len(b.events))
	for i, e := range b.events {
		types[i] = e.Type
	}
	return types
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeQuestionStore, *captureBroadcaster, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))
	store := newFakeQuestionStore(clock.Now)
	broadcaster := &captureBroadcaster{}
	return NewCoordinator(store, broadcaster, clock), store, broadcaster, clock
}

func minutes(n int) *int { return &n }

func TestSetActiveSwapsWithinSession(t *testing.T) {
	coordinator, store, broadcaster, _ := newTestCoordinator(t)
	sessionID := uuid.New()
	q1 := store.add(&models.Question{SessionID: sessionID, Order: 1, PromptText: "first"})
	q2 := store.add(&models.Question{SessionID: sessionID, Order: 2, PromptText: "second"})

	if _, err := coordinator.SetActive(context.Background(), sessionID, q1.ID, true); err != nil {
		t.Fatalf("activate q1: %v", err)
	}
	if _, err := coordinator.SetActive(context.Background(), sessionID, q2.ID, true); err != nil {
		t.Fatalf("activate q2: %v", err)
	}

	if store.activeCount(sessionID) != 1 {
		t.Fatalf("expected exactly one active question, got %d", store.activeCount(sessionID))
	}
	got1, _ := store.GetQuestion(context.Background(), q1.ID)
	got2, _ := store.GetQuestion(context.Background(), q2.ID)
	if got1.IsActive {
		t.Fatal("q1 should have been deactivated by activating q2")
	}
	if !got2.IsActive {
		t.Fatal("q2 should be active")
	}

	types := broadcaster.types()
	if len(types) != 2 || types[0] != gateway.EventTypeQuestionActivated || types[1] != gateway.EventTypeQuestionActivated {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestSetActiveConcurrentLeavesOneActive(t *testing.T) {
	coordinator, store, _, _ := newTestCoordinator(t)
	sessionID := uuid.New()

	ids := make([]uuid.UUID, 8)
	for i := range ids {
		q := store.add(&models.Question{SessionID: sessionID, Order: i + 1, PromptText: "q"})
		ids[i] = q.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := coordinator.SetActive(context.Background(), sessionID, id, true); err != nil {
				t.Errorf("activate: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if got := store.activeCount(sessionID); got != 1 {
		t.Fatalf("expected exactly one active question after concurrent activations, got %d", got)
	}
}

func TestSetActiveWrongSession(t *testing.T) {
	coordinator, store, _, _ := newTestCoordinator(t)
	q := store.add(&models.Question{SessionID: uuid.New(), Order: 1, PromptText: "q"})

	_, err := coordinator.SetActive(context.Background(), uuid.New(), q.ID, true)
	if apperrors.KindOf(err) != apperrors.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTimerStartsOncePerCountdown(t *testing.T) {
	coordinator, store, broadcaster, clock := newTestCoordinator(t)
	sessionID := uuid.New()
	q := store.add(&models.Question{SessionID: sessionID, Order: 1, PromptText: "q", TimerDurationMinutes: minutes(10)})

	first, err := coordinator.SetActive(context.Background(), sessionID, q.ID, true)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if first.TimerStartedAt == nil || first.TimerExpiresAt == nil {
		t.Fatal("timer should have started on first activation")
	}
	wantExpiry := clock.Now().UTC().Add(10 * time.Minute)
	if !first.TimerExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires at %v, want %v", first.TimerExpiresAt, wantExpiry)
	}

	if _, err := coordinator.SetActive(context.Background(), sessionID, q.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	clock.Advance(3 * time.Minute)
	second, err := coordinator.SetActive(context.Background(), sessionID, q.ID, true)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !second.TimerStartedAt.Equal(*first.TimerStartedAt) {
		t.Fatalf("reactivation restarted the timer: %v vs %v", second.TimerStartedAt, first.TimerStartedAt)
	}

	started := 0
	for _, typ := range broadcaster.types() {
		if typ == gateway.EventTypeQuestionTimerStarted {
			started++
		}
	}
	if started != 1 {
		t.Fatalf("expected one timer-started event, got %d", started)
	}
}

func TestExtendTimerAccumulates(t *testing.T) {
	coordinator, store, broadcaster, _ := newTestCoordinator(t)
	sessionID := uuid.New()
	q := store.add(&models.Question{SessionID: sessionID, Order: 1, PromptText: "q", TimerDurationMinutes: minutes(10)})

	activated, err := coordinator.SetActive(context.Background(), sessionID, q.ID, true)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := coordinator.ExtendTimer(context.Background(), q.ID, 5); err != nil {
		t.Fatalf("extend +5: %v", err)
	}
	extended, err := coordinator.ExtendTimer(context.Background(), q.ID, 10)
	if err != nil {
		t.Fatalf("extend +10: %v", err)
	}

	if extended.TimerExtendedMinutes != 15 {
		t.Fatalf("extended minutes = %d, want 15", extended.TimerExtendedMinutes)
	}
	wantExpiry := activated.TimerStartedAt.Add(25 * time.Minute)
	if !extended.TimerExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expires at %v, want %v", extended.TimerExpiresAt, wantExpiry)
	}

	extendedEvents := 0
	for _, typ := range broadcaster.types() {
		if typ == gateway.EventTypeQuestionTimerExtended {
			extendedEvents++
		}
	}
	if extendedEvents != 2 {
		t.Fatalf("expected two timer-extended events, got %d", extendedEvents)
	}
}

func TestExtendTimerRejections(t *testing.T) {
	coordinator, store, _, _ := newTestCoordinator(t)
	sessionID := uuid.New()
	timered := store.add(&models.Question{SessionID: sessionID, Order: 1, PromptText: "q", TimerDurationMinutes: minutes(10)})
	bare := store.add(&models.Question{SessionID: sessionID, Order: 2, PromptText: "no timer"})

	if _, err := coordinator.ExtendTimer(context.Background(), timered.ID, 0); apperrors.KindOf(err) != apperrors.Validation {
		t.Fatalf("zero minutes: expected validation, got %v", err)
	}
	if _, err := coordinator.ExtendTimer(context.Background(), timered.ID, 121); apperrors.KindOf(err) != apperrors.Validation {
		t.Fatalf("121 minutes: expected validation, got %v", err)
	}
	if _, err := coordinator.ExtendTimer(context.Background(), bare.ID, 5); apperrors.KindOf(err) != apperrors.Validation {
		t.Fatalf("no timer: expected validation, got %v", err)
	}
	// Timer configured but question never activated.
	if _, err := coordinator.ExtendTimer(context.Background(), timered.ID, 5); apperrors.KindOf(err) != apperrors.PreconditionFailed {
		t.Fatalf("idle question: expected precondition failed, got %v", err)
	}
}

func TestDuplicateCopiesContentNotState(t *testing.T) {
	coordinator, store, _, _ := newTestCoordinator(t)
	sourceSession := uuid.New()
	targetSession := uuid.New()
	notes := "facilitator notes"
	src := store.add(&models.Question{
		SessionID:            sourceSession,
		Order:                1,
		PromptText:           "original",
		TimerDurationMinutes: minutes(15),
		Notes:                &notes,
	})
	if _, err := coordinator.SetActive(context.Background(), sourceSession, src.ID, true); err != nil {
		t.Fatalf("activate source: %v", err)
	}
	store.add(&models.Question{SessionID: targetSession, Order: 4, PromptText: "existing"})

	creator := "fac-1"
	dup, err := coordinator.Duplicate(context.Background(), src.ID, targetSession, nil, &creator)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if dup.SessionID != targetSession {
		t.Fatalf("copy landed in session %s", dup.SessionID)
	}
	if dup.Order != 5 {
		t.Fatalf("copy order = %d, want 5 (appended)", dup.Order)
	}
	if dup.PromptText != "original" || dup.Notes == nil || *dup.Notes != notes {
		t.Fatal("copy should carry prompt and notes")
	}
	if dup.TimerDurationMinutes == nil || *dup.TimerDurationMinutes != 15 {
		t.Fatal("copy should carry timer configuration")
	}
	if dup.IsActive || dup.TimerStartedAt != nil || dup.TimerExpiresAt != nil || dup.TimerExtendedMinutes != 0 {
		t.Fatal("copy must not carry runtime state")
	}
	if dup.OriginalQuestionID == nil || *dup.OriginalQuestionID != src.ID {
		t.Fatal("copy should record its source question")
	}
	if dup.DuplicatedFromSessionID == nil || *dup.DuplicatedFromSessionID != sourceSession {
		t.Fatal("copy should record its source session")
	}
}

func TestGetSessionStateWithRunningTimer(t *testing.T) {
	coordinator, store, _, clock := newTestCoordinator(t)
	sessionID := uuid.New()
	q := store.add(&models.Question{SessionID: sessionID, Order: 1, PromptText: "q", TimerDurationMinutes: minutes(10)})

	if _, err := coordinator.SetActive(context.Background(), sessionID, q.ID, true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	clock.Advance(4 * time.Minute)

	state, err := coordinator.GetSessionState(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.ActiveQuestion == nil || state.ActiveQuestion.ID != q.ID {
		t.Fatal("state should carry the active question")
	}
	if state.Timer == nil {
		t.Fatal("state should carry the running timer")
	}
	if state.Timer.RemainingSeconds != 6*60 {
		t.Fatalf("remaining = %d, want %d", state.Timer.RemainingSeconds, 6*60)
	}
	if state.Timer.Expired {
		t.Fatal("timer should not be expired yet")
	}

	clock.Advance(7 * time.Minute)
	state, err = coordinator.GetSessionState(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("get state after expiry: %v", err)
	}
	if !state.Timer.Expired || state.Timer.RemainingSeconds != 0 {
		t.Fatalf("timer should read as expired with zero remaining, got %+v", state.Timer)
	}
	// Expiry is advisory: the question stays live.
	if state.ActiveQuestion == nil {
		t.Fatal("question should remain active past expiry")
	}
}

func TestGetSessionStateEmpty(t *testing.T) {
	coordinator, _, _, _ := newTestCoordinator(t)

	state, err := coordinator.GetSessionState(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if state.ActiveQuestion != nil || state.Timer != nil {
		t.Fatalf("expected empty state, got %+v", state)
	}
}
