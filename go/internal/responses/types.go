package responses

import (
	"sort"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/models"
)

// Filter selects which moderation slice of a question's responses to list.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterVisible Filter = "visible"
	FilterHidden  Filter = "hidden"
	FilterFlagged Filter = "flagged"
	FilterPinned  Filter = "pinned"
)

// ParseFilter maps a query-string value to a Filter, defaulting to
// visible, which is what participants see.
func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterVisible, FilterHidden, FilterFlagged, FilterPinned:
		return Filter(s), true
	case "":
		return FilterVisible, true
	default:
		return "", false
	}
}

// Sort orders a listed slice of responses.
type Sort string

const (
	SortNewest      Sort = "newest"
	SortOldest      Sort = "oldest"
	SortPinnedFirst Sort = "pinned-first"
)

// ParseSort maps a query-string value to a Sort, defaulting to newest.
func ParseSort(s string) (Sort, bool) {
	switch Sort(s) {
	case SortNewest, SortOldest, SortPinnedFirst:
		return Sort(s), true
	case "":
		return SortNewest, true
	default:
		return "", false
	}
}

// SortResponses orders rs in place. Pinned-first puts pinned responses
// ahead of the rest, newest first within each group.
func SortResponses(rs []models.Response, s Sort) {
	switch s {
	case SortOldest:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].CreatedAt.Before(rs[j].CreatedAt)
		})
	case SortPinnedFirst:
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].IsPinned != rs[j].IsPinned {
				return rs[i].IsPinned
			}
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		})
	default:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		})
	}
}

// CreateResponseRequest represents a participant submission.
type CreateResponseRequest struct {
	QuestionID    uuid.UUID `json:"question_id"`
	ParticipantID *string   `json:"participant_id,omitempty"`
	BodyText      string    `json:"body_text"`
}

// ListResult pairs a filtered, sorted page of responses with the
// question's total count.
type ListResult struct {
	Responses []models.Response `json:"responses"`
	Total     int64             `json:"total"`
}
