package model

import (
	"time"

	"github.com/google/uuid"
)

type AudienceMember struct {
	ID             uuid.UUID
	Name           string
	JoinedAt       time.Time
	PresentationID uuid.UUID
}
