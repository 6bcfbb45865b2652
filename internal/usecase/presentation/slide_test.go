package usecase_presentation

import (
	"context"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *UsecasePresentationUnitSuite) TestAddSlideValidation(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(in *SlideInput)
	}{
		{
			name:   "Should reject unknown type",
			mutate: func(in *SlideInput) { in.Type = "VIDEO" },
		},
		{
			name:   "Should reject poll with one option",
			mutate: func(in *SlideInput) { in.Options = in.Options[:1] },
		},
		{
			name:   "Should reject empty option text",
			mutate: func(in *SlideInput) { in.Options[1].Text = "  " },
		},
		{
			name:   "Should reject word cloud with options",
			mutate: func(in *SlideInput) { in.Type = model.SlideTypeWordCloud },
		},
		{
			name:   "Should reject quiz without correct option",
			mutate: func(in *SlideInput) { in.Type = model.SlideTypeQuiz },
		},
		{
			name: "Should reject single choice quiz with two correct options",
			mutate: func(in *SlideInput) {
				in.Type = model.SlideTypeQuiz
				in.Options[0].IsCorrect = true
				in.Options[1].IsCorrect = true
			},
		},
		{
			name: "Should reject slide without title and prompt",
			mutate: func(in *SlideInput) {
				in.Title = ""
				in.Prompt = " "
			},
		},
		{
			name:   "Should reject option id of another slide",
			mutate: func(in *SlideInput) { in.Options[0].ID = uuid.New() },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			p := validPresentation()
			r.presentations.On("LoadPresentation", r.ctx, p.ID).Return(p, nil).Once()
			in := validPollInput()
			tc.mutate(&in)

			_, err := r.usecase.AddSlide(r.ctx, p.ID, in)

			assert.ErrorIs(t, err, ErrInvalidInput)
			r.presentations.AssertNotCalled(t, "AddSlide", mock.Anything, mock.Anything)
		})
	}
}

func (s *UsecasePresentationUnitSuite) TestAddSlide(t provider.T) {
	r := initResources(t)
	p := validPresentation(model.SlideTypeFreeform)

	var added model.Slide
	r.presentations.On("LoadPresentation", r.ctx, p.ID).Return(p, nil).Once()
	r.presentations.On("AddSlide", r.ctx, mock.Anything).Run(func(args mock.Arguments) {
		added = args.Get(1).(model.Slide)
	}).Return(nil).Once()
	r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(func(context.Context, uuid.UUID) model.Presentation {
		after := p
		after.Slides = []model.Slide{added, p.Slides[0]}
		after.Slides[1].Order = 1
		return after
	}, nil)

	order := 0
	in := validPollInput()
	in.Order = &order
	slide, err := r.usecase.AddSlide(r.ctx, p.ID, in)

	require.NoError(t, err)
	assert.Equal(t, 0, slide.Order)
	assert.Equal(t, added, slide)
	require.Len(t, slide.Options, 2)
	assert.NotEqual(t, uuid.Nil, slide.Options[0].ID)

	require.NoError(t, r.store.View(r.ctx, p.ID, func(b *usecase_aggregation.Board) error {
		slides := b.Slides()
		require.Len(t, slides, 2)
		assert.Equal(t, slide.ID, slides[0].ID)
		assert.Equal(t, p.Slides[0].ID, slides[1].ID)
		return nil
	}))
}

func (s *UsecasePresentationUnitSuite) TestUpdateLiveSlideKeepsCounts(t provider.T) {
	r := initResources(t)
	p := validPresentation(model.SlideTypePoll)
	slide := p.Slides[0]
	kept := slide.Options[0]

	edited := p
	edited.Slides = []model.Slide{slide}
	edited.Slides[0].Prompt = "Dinner?"
	edited.Slides[0].Options = []model.Option{kept, {ID: uuid.New(), Text: "Tacos"}}

	r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(p, nil).Twice()
	r.presentations.On("UpdateSlide", r.ctx, mock.MatchedBy(func(s model.Slide) bool {
		return s.ID == slide.ID && s.Prompt == "Dinner?" && len(s.Options) == 2 && s.Options[0].ID == kept.ID
	})).Return(nil).Once()
	r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(edited, nil).Once()

	require.NoError(t, r.store.Update(r.ctx, p.ID, func(b *usecase_aggregation.Board) error {
		_, err := b.SetLive(slide.ID)
		require.NoError(t, err)
		_, err = b.Apply(slide.ID, model.Vote{OptionIDs: []uuid.UUID{kept.ID}}, fixedNow)
		return err
	}))
	questions := r.hub.Subscribe(model.ActiveQuestionTopic(p.ID))

	_, err := r.usecase.UpdateSlide(r.ctx, p.ID, slide.ID, SlideInput{
		Prompt:  "Dinner?",
		Options: []OptionInput{{ID: kept.ID, Text: kept.Text}, {Text: "Tacos"}},
	})
	require.NoError(t, err)

	ev := next(t, questions)
	q := ev.Payload.(model.ActiveQuestion)
	require.NotNil(t, q.Slide)
	assert.Equal(t, "Dinner?", q.Slide.Prompt)

	require.NoError(t, r.store.View(r.ctx, p.ID, func(b *usecase_aggregation.Board) error {
		snap, err := b.Snapshot(slide.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Tally[kept.ID])
		assert.Len(t, snap.Tally, 2)
		return nil
	}))
}

func (s *UsecasePresentationUnitSuite) TestUpdateSlideRejectsTypeChange(t provider.T) {
	r := initResources(t)
	p := validPresentation(model.SlideTypePoll)
	r.presentations.On("LoadPresentation", r.ctx, p.ID).Return(p, nil).Once()

	in := validPollInput()
	in.Type = model.SlideTypeWordCloud
	_, err := r.usecase.UpdateSlide(r.ctx, p.ID, p.Slides[0].ID, in)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func (s *UsecasePresentationUnitSuite) TestUpdateUnknownSlide(t provider.T) {
	r := initResources(t)
	p := validPresentation(model.SlideTypePoll)
	r.presentations.On("LoadPresentation", r.ctx, p.ID).Return(p, nil).Once()

	_, err := r.usecase.UpdateSlide(r.ctx, p.ID, uuid.New(), validPollInput())

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func (s *UsecasePresentationUnitSuite) TestMoveSlide(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		from, to      int
		expectedOrder []int
		expectedError error
	}{
		{
			name:          "Should move first slide to the end",
			from:          0,
			to:            2,
			expectedOrder: []int{1, 2, 0},
		},
		{
			name:          "Should move last slide to the front",
			from:          2,
			to:            0,
			expectedOrder: []int{2, 0, 1},
		},
		{
			name:          "Should reject position out of range",
			from:          0,
			to:            3,
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject negative position",
			from:          1,
			to:            -1,
			expectedError: ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			p := validPresentation(model.SlideTypePoll, model.SlideTypeWordCloud, model.SlideTypeFreeform)
			r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(p, nil)

			var expected []uuid.UUID
			for _, i := range tc.expectedOrder {
				expected = append(expected, p.Slides[i].ID)
			}
			if tc.expectedError == nil {
				r.presentations.On("ReorderSlides", r.ctx, p.ID, expected).Return(nil).Once()
			}

			slide, err := r.usecase.MoveSlide(r.ctx, p.ID, p.Slides[tc.from].ID, tc.to)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, slide.Order)
		})
	}
}

func (s *UsecasePresentationUnitSuite) TestDeleteLiveSlide(t provider.T) {
	r := initResources(t)
	p := validPresentation(model.SlideTypePoll, model.SlideTypeWordCloud)
	after := p
	after.Slides = []model.Slide{p.Slides[1]}
	after.Slides[0].Order = 0

	r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(p, nil).Once()
	r.presentations.On("DeleteSlide", r.ctx, p.ID, p.Slides[0].ID).Return(nil).Once()
	r.presentations.On("LoadPresentation", mock.Anything, p.ID).Return(after, nil).Once()

	require.NoError(t, r.store.Update(r.ctx, p.ID, func(b *usecase_aggregation.Board) error {
		_, err := b.SetLive(p.Slides[0].ID)
		return err
	}))
	questions := r.hub.Subscribe(model.ActiveQuestionTopic(p.ID))

	require.NoError(t, r.usecase.DeleteSlide(r.ctx, p.ID, p.Slides[0].ID))

	q := next(t, questions).Payload.(model.ActiveQuestion)
	assert.Nil(t, q.SlideID)
	require.NoError(t, r.store.View(r.ctx, p.ID, func(b *usecase_aggregation.Board) error {
		slides := b.Slides()
		require.Len(t, slides, 1)
		assert.Equal(t, 0, slides[0].Order)
		_, err := b.Snapshot(p.Slides[0].ID)
		assert.ErrorIs(t, err, model.RejectUnknownSlide)
		return nil
	}))
}

func (s *UsecasePresentationUnitSuite) TestDeleteUnknownSlide(t provider.T) {
	r := initResources(t)
	id, slideID := uuid.New(), uuid.New()
	r.presentations.On("DeleteSlide", r.ctx, id, slideID).Return(model.ErrNotFound).Once()

	err := r.usecase.DeleteSlide(r.ctx, id, slideID)

	assert.ErrorIs(t, err, ErrResourceNotFound)
}
