package model

import (
	"time"

	"github.com/google/uuid"
)

// Payload is one of Vote, Word or Text.
type Payload interface {
	payload()
}

// Vote references options of a poll or quiz slide.
type Vote struct {
	OptionIDs []uuid.UUID
}

// Word is a word cloud entry as typed by the audience member.
type Word struct {
	Text string
}

// Text is a freeform answer.
type Text struct {
	Body string
}

func (Vote) payload() {}
func (Word) payload() {}
func (Text) payload() {}

type Submission struct {
	PresentationID uuid.UUID
	SlideID        uuid.UUID
	// uuid.Nil for anonymous submissions
	MemberID uuid.UUID
	Payload  Payload
}

type Response struct {
	ID             uuid.UUID
	PresentationID uuid.UUID
	SlideID        uuid.UUID
	MemberID       uuid.UUID
	Payload        Payload
	CreatedAt      time.Time
}

type Ack struct {
	PresentationID uuid.UUID `json:"presentationId"`
	SlideID        uuid.UUID `json:"slideId"`
	AcceptedAt     time.Time `json:"acceptedAt"`
	Snapshot       Snapshot  `json:"snapshot"`
}
