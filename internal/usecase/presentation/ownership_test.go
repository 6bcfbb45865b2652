package usecase_presentation

import (
	"context"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
	repo_mocks "github.com/humanbelnik/pollcast/core/internal/usecase/presentation/mocks/repository"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/stretchr/testify/assert"
)

// elsewhere is held by another instance for every presentation.
type elsewhere struct{}

func (elsewhere) Claim(context.Context, uuid.UUID) (bool, error) {
	return false, model.ErrNotOwner
}

func (elsewhere) Release(context.Context, uuid.UUID) error {
	return nil
}

func (s *UsecasePresentationUnitSuite) TestEditsStayWithOwner(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name string
		call func(u *Usecase, id uuid.UUID) error
	}{
		{
			name: "Should not toggle a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				_, err := u.ToggleActive(context.Background(), id)
				return err
			},
		},
		{
			name: "Should not end a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				_, err := u.End(context.Background(), id)
				return err
			},
		},
		{
			name: "Should not delete a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				return u.Delete(context.Background(), id, "token")
			},
		},
		{
			name: "Should not add slides to a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				_, err := u.AddSlide(context.Background(), id, validPollInput())
				return err
			},
		},
		{
			name: "Should not move slides of a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				_, err := u.MoveSlide(context.Background(), id, uuid.New(), 0)
				return err
			},
		},
		{
			name: "Should not delete slides of a presentation served elsewhere",
			call: func(u *Usecase, id uuid.UUID) error {
				return u.DeleteSlide(context.Background(), id, uuid.New())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			// No repository expectations: nothing may be written.
			presentations := repo_mocks.NewPresentationRepository(t)
			store := usecase_aggregation.New(presentations, nil, usecase_aggregation.WithOwnership(elsewhere{}))
			u := New(presentations, repo_mocks.NewAudienceRepository(t), nil, store, nil)

			err := tc.call(u, uuid.New())

			assert.ErrorIs(t, err, model.ErrNotOwner)
			assert.NotErrorIs(t, err, ErrInternal)
		})
	}
}
