package infra_postgres_presentation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

type presentationDTO struct {
	ID          uuid.UUID    `db:"id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	IsActive    bool         `db:"is_active"`
	AccessCode  string       `db:"access_code"`
	CreatedBy   string       `db:"created_by"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	EndedAt     sql.NullTime `db:"ended_at"`
}

func fromPresentation(p model.Presentation) presentationDTO {
	dto := presentationDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		IsActive:    p.IsActive,
		AccessCode:  p.AccessCode,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.EndedAt != nil {
		dto.EndedAt = sql.NullTime{Time: *p.EndedAt, Valid: true}
	}
	return dto
}

func (dto presentationDTO) toDomain() model.Presentation {
	p := model.Presentation{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		IsActive:    dto.IsActive,
		AccessCode:  dto.AccessCode,
		CreatedBy:   dto.CreatedBy,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
	if dto.EndedAt.Valid {
		ended := dto.EndedAt.Time
		p.EndedAt = &ended
	}
	return p
}

type slideDTO struct {
	ID             uuid.UUID `db:"id"`
	PresentationID uuid.UUID `db:"presentation_id"`
	Type           string    `db:"type"`
	Title          string    `db:"title"`
	Prompt         string    `db:"prompt"`
	Position       int       `db:"position"`
	AllowMultiple  bool      `db:"allow_multiple"`
}

func fromSlide(s model.Slide) slideDTO {
	return slideDTO{
		ID:             s.ID,
		PresentationID: s.PresentationID,
		Type:           string(s.Type),
		Title:          s.Title,
		Prompt:         s.Prompt,
		Position:       s.Order,
		AllowMultiple:  s.AllowMultiple,
	}
}

func (dto slideDTO) toDomain() model.Slide {
	return model.Slide{
		ID:             dto.ID,
		PresentationID: dto.PresentationID,
		Type:           model.SlideType(dto.Type),
		Title:          dto.Title,
		Prompt:         dto.Prompt,
		Order:          dto.Position,
		AllowMultiple:  dto.AllowMultiple,
	}
}

type optionDTO struct {
	ID        uuid.UUID `db:"id"`
	SlideID   uuid.UUID `db:"slide_id"`
	Text      string    `db:"text"`
	IsCorrect bool      `db:"is_correct"`
	Position  int       `db:"position"`
}
