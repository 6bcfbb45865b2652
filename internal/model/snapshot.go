package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time copy of a slide accumulator.
// Exactly one of Tally, Words and Responses is populated, depending on Type.
type Snapshot struct {
	PresentationID uuid.UUID `json:"presentationId"`
	SlideID        uuid.UUID `json:"slideId"`
	Type           SlideType `json:"type"`
	Version        uint64    `json:"version"`
	Total          int       `json:"total"`

	Tally map[uuid.UUID]int `json:"tally,omitempty"`
	// Quiz submissions whose selection matched the correct options exactly.
	Correct   int             `json:"correct,omitempty"`
	Words     map[string]int  `json:"words,omitempty"`
	Responses []FreeformEntry `json:"responses,omitempty"`
}

type FreeformEntry struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type snapshotJSON Snapshot

// MarshalJSON always writes the aggregate of the slide type, empty or not,
// and leaves out the others.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	switch s.Type {
	case SlideTypePoll:
		return json.Marshal(struct {
			snapshotJSON
			Tally map[uuid.UUID]int `json:"tally"`
		}{snapshotJSON(s), orEmpty(s.Tally)})
	case SlideTypeQuiz:
		return json.Marshal(struct {
			snapshotJSON
			Tally   map[uuid.UUID]int `json:"tally"`
			Correct int               `json:"correct"`
		}{snapshotJSON(s), orEmpty(s.Tally), s.Correct})
	case SlideTypeWordCloud:
		return json.Marshal(struct {
			snapshotJSON
			Words map[string]int `json:"words"`
		}{snapshotJSON(s), orEmpty(s.Words)})
	case SlideTypeFreeform:
		responses := s.Responses
		if responses == nil {
			responses = []FreeformEntry{}
		}
		return json.Marshal(struct {
			snapshotJSON
			Responses []FreeformEntry `json:"responses"`
		}{snapshotJSON(s), responses})
	}
	return json.Marshal(snapshotJSON(s))
}

func orEmpty[K comparable](m map[K]int) map[K]int {
	if m == nil {
		return map[K]int{}
	}
	return m
}
