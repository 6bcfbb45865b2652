package model

import "github.com/google/uuid"

// Cursor points at the live slide of a presentation. A nil SlideID means no slide is live.
type Cursor struct {
	PresentationID uuid.UUID
	SlideID        *uuid.UUID
}

func (c Cursor) Live() (uuid.UUID, bool) {
	if c.SlideID == nil {
		return uuid.Nil, false
	}
	return *c.SlideID, true
}

type ActiveQuestion struct {
	PresentationID uuid.UUID `json:"presentationId"`
	// Grows with every cursor transition; lets clients drop stale updates.
	Seq     uint64     `json:"seq"`
	SlideID *uuid.UUID `json:"slideId"`
	Slide   *SlideView `json:"slide"`
}
