package http_presentation

import (
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

type OptionDTO struct {
	ID        uuid.UUID `json:"id" swaggertype:"string"`
	Text      string    `json:"text" example:"Yes"`
	IsCorrect *bool     `json:"isCorrect,omitempty"`
}

type SlideDTO struct {
	ID            uuid.UUID       `json:"id" swaggertype:"string"`
	Type          model.SlideType `json:"type" example:"POLL" enums:"POLL,QUIZ,WORDCLOUD,FREEFORM"`
	Title         string          `json:"title"`
	Order         int             `json:"order" example:"0"`
	Prompt        string          `json:"prompt" example:"Ready to start?"`
	Options       []OptionDTO     `json:"options,omitempty"`
	AllowMultiple bool            `json:"allowMultiple"`
	Results       *model.Snapshot `json:"results,omitempty"`
}

type PresentationDTO struct {
	ID            uuid.UUID  `json:"id" swaggertype:"string"`
	Title         string     `json:"title" example:"Quarterly town hall"`
	Description   string     `json:"description"`
	IsActive      bool       `json:"isActive"`
	AccessCode    string     `json:"accessCode" example:"042917"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	AudienceCount int        `json:"audienceCount"`
	Slides        []SlideDTO `json:"slides"`
}

type MemberDTO struct {
	ID             uuid.UUID `json:"id" swaggertype:"string"`
	Name           string    `json:"name" example:"Ada"`
	JoinedAt       time.Time `json:"joinedAt"`
	PresentationID uuid.UUID `json:"presentationId" swaggertype:"string"`
}

// toPresentationDTO renders p. Correct answers are only shown to presenters.
func toPresentationDTO(p model.Presentation, results map[uuid.UUID]model.Snapshot, presenter bool) PresentationDTO {
	dto := PresentationDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		IsActive:      p.IsActive,
		AccessCode:    p.AccessCode,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		EndedAt:       p.EndedAt,
		AudienceCount: p.AudienceCount,
		Slides:        make([]SlideDTO, 0, len(p.Slides)),
	}
	for _, s := range p.Slides {
		slide := toSlideDTO(s, presenter)
		if snap, ok := results[s.ID]; ok {
			slide.Results = &snap
		}
		dto.Slides = append(dto.Slides, slide)
	}
	return dto
}

func toSlideDTO(s model.Slide, presenter bool) SlideDTO {
	dto := SlideDTO{
		ID:            s.ID,
		Type:          s.Type,
		Title:         s.Title,
		Order:         s.Order,
		Prompt:        s.Prompt,
		AllowMultiple: s.AllowMultiple,
	}
	for _, o := range s.Options {
		option := OptionDTO{ID: o.ID, Text: o.Text}
		if presenter && s.Type == model.SlideTypeQuiz {
			correct := o.IsCorrect
			option.IsCorrect = &correct
		}
		dto.Options = append(dto.Options, option)
	}
	return dto
}

func toMemberDTO(m model.AudienceMember) MemberDTO {
	return MemberDTO{
		ID:             m.ID,
		Name:           m.Name,
		JoinedAt:       m.JoinedAt,
		PresentationID: m.PresentationID,
	}
}
