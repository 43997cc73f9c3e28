package questions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/agorahq/agora/go/internal/apperrors"
)

func TestMapStoreErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{
			name: "missing row",
			err:  sql.ErrNoRows,
			want: apperrors.NotFound,
		},
		{
			name: "store timeout",
			err:  context.DeadlineExceeded,
			want: apperrors.Unavailable,
		},
		{
			name: "duplicate order within session",
			err:  &pq.Error{Code: "23505", Constraint: "idx_questions_session_order"},
			want: apperrors.Conflict,
		},
		{
			name: "other constraint violation passes through",
			err:  &pq.Error{Code: "23503"},
			want: 0,
		},
		{
			name: "unclassified error passes through",
			err:  errors.New("connection reset"),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapStoreErr(tt.err, "failed to create question")
			if got := apperrors.KindOf(mapped); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
			if !errors.Is(mapped, tt.err) {
				t.Errorf("mapped error should wrap the cause: %v", mapped)
			}
		})
	}
}
