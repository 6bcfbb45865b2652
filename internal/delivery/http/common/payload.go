package http_common

import (
	"errors"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

var ErrPayloadShape = errors.New("exactly one of optionId, optionIds, word or text is required")

// SubmitPayload is the wire form of a response. Exactly one field is set,
// matching the slide type.
type SubmitPayload struct {
	OptionID  *string  `json:"optionId,omitempty"`
	OptionIDs []string `json:"optionIds,omitempty"`
	Word      *string  `json:"word,omitempty" example:"cat"`
	Text      *string  `json:"text,omitempty"`
}

// Payload converts the wire form into the response variant it describes.
func (p SubmitPayload) Payload() (model.Payload, error) {
	shapes := 0
	for _, set := range []bool{p.OptionID != nil, p.OptionIDs != nil, p.Word != nil, p.Text != nil} {
		if set {
			shapes++
		}
	}
	if shapes != 1 {
		return nil, ErrPayloadShape
	}

	switch {
	case p.OptionID != nil:
		id, err := uuid.Parse(*p.OptionID)
		if err != nil {
			return nil, err
		}
		return model.Vote{OptionIDs: []uuid.UUID{id}}, nil
	case p.OptionIDs != nil:
		ids := make([]uuid.UUID, 0, len(p.OptionIDs))
		for _, raw := range p.OptionIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return model.Vote{OptionIDs: ids}, nil
	case p.Word != nil:
		return model.Word{Text: *p.Word}, nil
	default:
		return model.Text{Body: *p.Text}, nil
	}
}
