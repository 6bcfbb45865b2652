package usecase_presentation

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *UsecasePresentationUnitSuite) TestJoin(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		member        string
		setupMocks    func(r *resources, p model.Presentation)
		expectedError error
	}{
		{
			name:   "Should join active presentation",
			member: "  Bob ",
			setupMocks: func(r *resources, p model.Presentation) {
				r.presentations.On("ByAccessCode", r.ctx, p.AccessCode).Return(p, nil).Once()
				r.audience.On("Join", r.ctx, mock.MatchedBy(func(m model.AudienceMember) bool {
					return m.Name == "Bob" && m.PresentationID == p.ID && m.JoinedAt.Equal(fixedNow)
				})).Return(nil).Once()
				r.audience.On("Count", r.ctx, p.ID).Return(3, nil).Once()
			},
		},
		{
			name:   "Should reject unknown or inactive code",
			member: "Bob",
			setupMocks: func(r *resources, p model.Presentation) {
				r.presentations.On("ByAccessCode", r.ctx, p.AccessCode).Return(model.Presentation{}, model.ErrNotFound).Once()
			},
			expectedError: ErrResourceNotFound,
		},
		{
			name:          "Should reject empty name",
			member:        "   ",
			setupMocks:    func(r *resources, p model.Presentation) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject long name",
			member:        strings.Repeat("я", maxNameLength+1),
			setupMocks:    func(r *resources, p model.Presentation) {},
			expectedError: ErrInvalidInput,
		},
		{
			name:   "Should return internal error when repository fails",
			member: "Bob",
			setupMocks: func(r *resources, p model.Presentation) {
				r.presentations.On("ByAccessCode", r.ctx, p.AccessCode).Return(p, nil).Once()
				r.audience.On("Join", r.ctx, mock.Anything).Return(errors.New("db is down")).Once()
			},
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			p := validPresentation()
			tc.setupMocks(r, p)
			updates := r.hub.Subscribe(model.AudienceTopic(p.ID))

			member, err := r.usecase.Join(r.ctx, p.AccessCode, tc.member)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Empty(t, updates.Events())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Bob", member.Name)
			ev := next(t, updates)
			assert.Equal(t, model.EventAudienceUpdate, ev.Type)
			assert.Equal(t, model.AudienceUpdate{PresentationID: p.ID.String(), Count: 3}, ev.Payload)
		})
	}
}

func (s *UsecasePresentationUnitSuite) TestLeave(t provider.T) {
	r := initResources(t)
	p := validPresentation()
	member := uuid.New()
	r.audience.On("Leave", r.ctx, p.ID, member).Return(nil).Once()
	r.audience.On("Count", r.ctx, p.ID).Return(0, nil).Once()
	updates := r.hub.Subscribe(model.AudienceTopic(p.ID))

	require.NoError(t, r.usecase.Leave(r.ctx, p.ID, member))
	assert.Equal(t, 0, next(t, updates).Payload.(model.AudienceUpdate).Count)

	r.audience.On("Leave", r.ctx, p.ID, member).Return(model.ErrNotFound).Once()
	assert.ErrorIs(t, r.usecase.Leave(r.ctx, p.ID, member), ErrResourceNotFound)
}

func (s *UsecasePresentationUnitSuite) TestAudience(t provider.T) {
	r := initResources(t)
	p := validPresentation()
	members := []model.AudienceMember{{ID: uuid.New(), Name: "Bob", PresentationID: p.ID}}
	r.audience.On("List", r.ctx, p.ID).Return(members, nil).Once()

	got, err := r.usecase.Audience(r.ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, members, got)
}
