package responses

import (
	"testing"
	"time"

	"github.com/agorahq/agora/go/internal/models"
)

func responseAt(id string, created time.Time, pinned bool) models.Response {
	return models.Response{BodyText: id, CreatedAt: created, IsPinned: pinned}
}

func bodies(rs []models.Response) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.BodyText
	}
	return out
}

func TestSortResponses(t *testing.T) {
	base := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	// r1 oldest, r2 middle (pinned), r3 newest (pinned).
	rs := func() []models.Response {
		return []models.Response{
			responseAt("r1", base, false),
			responseAt("r2", base.Add(time.Minute), true),
			responseAt("r3", base.Add(2*time.Minute), true),
		}
	}

	newest := rs()
	SortResponses(newest, SortNewest)
	if got := bodies(newest); got[0] != "r3" || got[1] != "r2" || got[2] != "r1" {
		t.Fatalf("newest: got %v", got)
	}

	oldest := rs()
	SortResponses(oldest, SortOldest)
	if got := bodies(oldest); got[0] != "r1" || got[1] != "r2" || got[2] != "r3" {
		t.Fatalf("oldest: got %v", got)
	}

	pinnedFirst := rs()
	SortResponses(pinnedFirst, SortPinnedFirst)
	if got := bodies(pinnedFirst); got[0] != "r3" || got[1] != "r2" || got[2] != "r1" {
		t.Fatalf("pinned-first: got %v", got)
	}
}

func TestSortResponsesPinnedFirstUnpinnedOrder(t *testing.T) {
	base := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	rs := []models.Response{
		responseAt("r1", base, false),
		responseAt("r2", base.Add(time.Minute), true),
		responseAt("r3", base.Add(2*time.Minute), false),
	}

	SortResponses(rs, SortPinnedFirst)
	if got := bodies(rs); got[0] != "r2" || got[1] != "r3" || got[2] != "r1" {
		t.Fatalf("pinned group then newest-first rest, got %v", got)
	}
}

func TestParseFilter(t *testing.T) {
	if f, ok := ParseFilter(""); !ok || f != FilterVisible {
		t.Fatalf("empty should default to visible, got %q ok=%v", f, ok)
	}
	if f, ok := ParseFilter("flagged"); !ok || f != FilterFlagged {
		t.Fatalf("flagged: got %q ok=%v", f, ok)
	}
	if _, ok := ParseFilter("bogus"); ok {
		t.Fatal("bogus filter should be rejected")
	}
}

func TestParseSort(t *testing.T) {
	if s, ok := ParseSort(""); !ok || s != SortNewest {
		t.Fatalf("empty should default to newest, got %q ok=%v", s, ok)
	}
	if s, ok := ParseSort("pinned-first"); !ok || s != SortPinnedFirst {
		t.Fatalf("pinned-first: got %q ok=%v", s, ok)
	}
	if _, ok := ParseSort("sideways"); ok {
		t.Fatal("unknown sort should be rejected")
	}
}
