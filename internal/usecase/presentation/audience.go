package usecase_presentation

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

const maxNameLength = 64

// Join adds an audience member to the active presentation behind accessCode.
func (u *Usecase) Join(ctx context.Context, accessCode string, name string) (model.AudienceMember, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return model.AudienceMember{}, errors.Join(ErrInvalidInput, errors.New("name must be 1-64 characters"))
	}

	p, err := u.presentations.ByAccessCode(ctx, strings.TrimSpace(accessCode))
	if err != nil {
		return model.AudienceMember{}, u.repoError(err)
	}

	member := model.AudienceMember{
		ID:             uuid.New(),
		Name:           name,
		JoinedAt:       u.now(),
		PresentationID: p.ID,
	}
	if err := u.audience.Join(ctx, member); err != nil {
		return model.AudienceMember{}, u.repoError(err)
	}

	u.announceAudience(ctx, p.ID)
	return member, nil
}

func (u *Usecase) Leave(ctx context.Context, presentationID, memberID uuid.UUID) error {
	if err := u.audience.Leave(ctx, presentationID, memberID); err != nil {
		return u.repoError(err)
	}

	u.announceAudience(ctx, presentationID)
	return nil
}

func (u *Usecase) Audience(ctx context.Context, presentationID uuid.UUID) ([]model.AudienceMember, error) {
	members, err := u.audience.List(ctx, presentationID)
	if err != nil {
		return nil, u.repoError(err)
	}
	return members, nil
}

func (u *Usecase) announceAudience(ctx context.Context, presentationID uuid.UUID) {
	count, err := u.audience.Count(ctx, presentationID)
	if err != nil {
		u.logger.Warn("failed to count audience",
			"presentation", presentationID,
			"error", err)
		return
	}
	u.publishAudience(presentationID, count)
}

func (u *Usecase) publishAudience(presentationID uuid.UUID, count int) {
	topic := model.AudienceTopic(presentationID)
	u.publisher.Publish(topic, model.NewEvent(topic, model.EventAudienceUpdate, model.AudienceUpdate{
		PresentationID: presentationID.String(),
		Count:          count,
	}))
}
