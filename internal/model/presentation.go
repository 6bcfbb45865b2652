package model

import (
	"time"

	"github.com/google/uuid"
)

const AccessCodeLength = 6

type Presentation struct {
	ID          uuid.UUID
	Title       string
	Description string
	IsActive    bool
	AccessCode  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	EndedAt     *time.Time

	// Ordered by Slide.Order
	Slides        []Slide
	AudienceCount int
}

func (p Presentation) Slide(id uuid.UUID) (Slide, bool) {
	for _, s := range p.Slides {
		if s.ID == id {
			return s, true
		}
	}
	return Slide{}, false
}

func (p Presentation) Ended() bool {
	return p.EndedAt != nil
}
