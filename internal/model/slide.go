package model

import "github.com/google/uuid"

type SlideType string

const (
	SlideTypePoll      SlideType = "POLL"
	SlideTypeQuiz      SlideType = "QUIZ"
	SlideTypeWordCloud SlideType = "WORDCLOUD"
	SlideTypeFreeform  SlideType = "FREEFORM"
)

func (t SlideType) Valid() bool {
	switch t {
	case SlideTypePoll, SlideTypeQuiz, SlideTypeWordCloud, SlideTypeFreeform:
		return true
	}
	return false
}

// HasOptions reports whether responses to the slide reference options.
func (t SlideType) HasOptions() bool {
	return t == SlideTypePoll || t == SlideTypeQuiz
}

type Option struct {
	ID        uuid.UUID
	Text      string
	IsCorrect bool
}

type Slide struct {
	ID             uuid.UUID
	PresentationID uuid.UUID
	Type           SlideType
	Title          string
	Order          int

	// Question for polls and quizzes, prompt for word clouds and freeform slides.
	Prompt        string
	Options       []Option
	AllowMultiple bool
}

func (s Slide) Option(id uuid.UUID) (Option, bool) {
	for _, o := range s.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// SlideView is what the audience is allowed to see of a slide.
type SlideView struct {
	ID            uuid.UUID    `json:"id"`
	Type          SlideType    `json:"type"`
	Title         string       `json:"title"`
	Order         int          `json:"order"`
	Prompt        string       `json:"prompt"`
	Options       []OptionView `json:"options,omitempty"`
	AllowMultiple bool         `json:"allowMultiple"`
}

type OptionView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

func (s Slide) AudienceView() SlideView {
	v := SlideView{
		ID:            s.ID,
		Type:          s.Type,
		Title:         s.Title,
		Order:         s.Order,
		Prompt:        s.Prompt,
		AllowMultiple: s.AllowMultiple,
	}
	if len(s.Options) > 0 {
		v.Options = make([]OptionView, 0, len(s.Options))
		for _, o := range s.Options {
			v.Options = append(v.Options, OptionView{ID: o.ID, Text: o.Text})
		}
	}
	return v
}
