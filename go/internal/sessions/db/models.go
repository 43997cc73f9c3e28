package db

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	FacilitatorID string
	Title         string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
