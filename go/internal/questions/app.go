package questions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
)

// Timer configuration bounds, in minutes.
const (
	MinTimerDurationMinutes = 1
	MaxTimerDurationMinutes = 480
	MaxNotesLength          = 500
)

// QuestionsRepository defines what the app layer needs from the repository.
type QuestionsRepository interface {
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Question, error)
	GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (*models.Question, error)
	NextOrder(ctx context.Context, sessionID uuid.UUID) (int, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, req UpdateQuestionRequest) (*models.Question, error)
	ActivateExclusive(ctx context.Context, sessionID, questionID uuid.UUID, startedAt, expiresAt *time.Time) (*models.Question, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ExtendTimer(ctx context.Context, id uuid.UUID, additionalMinutes int) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

// App handles question store business logic: validation and CRUD. It has
// no side effects beyond the single record; activation and timers belong
// to the activation coordinator.
type App struct {
	repo QuestionsRepository
}

// NewApp creates a new questions App.
func NewApp(repo QuestionsRepository) *App {
	return &App{repo: repo}
}

// CreateQuestion creates a question after validating its constraints.
// A zero Order means "append": the next free order in the session is
// assigned.
func (a *App) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error) {
	req.PromptText = strings.TrimSpace(req.PromptText)
	if err := validateQuestionFields(req.PromptText, req.TimerDurationMinutes, req.Notes); err != nil {
		return nil, err
	}
	if req.Order == 0 {
		next, err := a.repo.NextOrder(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		req.Order = next
	}
	if req.Order < 1 {
		return nil, apperrors.New(apperrors.Validation, "order must be a positive integer")
	}

	question, err := a.repo.CreateQuestion(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("question_id", question.ID.String()).
		Str("session_id", question.SessionID.String()).
		Int("order", question.Order).
		Msg("question created")
	return question, nil
}

// GetQuestion retrieves a question by ID.
func (a *App) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return a.repo.GetQuestion(ctx, id)
}

// ListBySession returns the session's questions in display order.
func (a *App) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Question, error) {
	return a.repo.ListBySession(ctx, sessionID)
}

// GetActiveQuestion returns the currently live question, or nil.
func (a *App) GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (*models.Question, error) {
	return a.repo.GetActiveQuestion(ctx, sessionID)
}

// UpdateQuestion applies a validated partial update.
func (a *App) UpdateQuestion(ctx context.Context, id uuid.UUID, req UpdateQuestionRequest) (*models.Question, error) {
	if req.PromptText != nil {
		trimmed := strings.TrimSpace(*req.PromptText)
		if trimmed == "" {
			return nil, apperrors.New(apperrors.Validation, "prompt text must not be empty")
		}
		req.PromptText = &trimmed
	}
	if req.Order != nil && *req.Order < 1 {
		return nil, apperrors.New(apperrors.Validation, "order must be a positive integer")
	}
	if err := validateTimerDuration(req.TimerDurationMinutes); err != nil {
		return nil, err
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}
	return a.repo.UpdateQuestion(ctx, id, req)
}

// DeleteQuestion removes a question and, via the schema, its responses.
func (a *App) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	if _, err := a.repo.GetQuestion(ctx, id); err != nil {
		return err
	}
	if err := a.repo.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	log.Info().Str("question_id", id.String()).Msg("question deleted")
	return nil
}

func validateQuestionFields(promptText string, timerMinutes *int, notes *string) error {
	if promptText == "" {
		return apperrors.New(apperrors.Validation, "prompt text must not be empty")
	}
	if err := validateTimerDuration(timerMinutes); err != nil {
		return err
	}
	return validateNotes(notes)
}

func validateTimerDuration(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if *minutes < MinTimerDurationMinutes || *minutes > MaxTimerDurationMinutes {
		return apperrors.New(apperrors.Validation,
			"timer duration must be between %d and %d minutes", MinTimerDurationMinutes, MaxTimerDurationMinutes)
	}
	return nil
}

func validateNotes(notes *string) error {
	if notes != nil && len(*notes) > MaxNotesLength {
		return apperrors.New(apperrors.Validation, "notes must be at most %d characters", MaxNotesLength)
	}
	return nil
}
