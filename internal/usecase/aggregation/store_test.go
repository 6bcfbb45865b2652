package usecase_aggregation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	mocks "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation/mocks/source"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UsecaseAggregationUnitSuite struct {
	suite.Suite
}

type resources struct {
	store         *Store
	presentations *mocks.PresentationSource
	responses     *mocks.ResponseSource
	ctx           context.Context
}

func initResources(t provider.T) *resources {
	presentations := mocks.NewPresentationSource(t)
	responses := mocks.NewResponseSource(t)

	return &resources{
		store:         New(presentations, responses),
		presentations: presentations,
		responses:     responses,
		ctx:           context.Background(),
	}
}

func (r *resources) expectLoad(p model.Presentation, stored ...model.Response) {
	r.presentations.On("LoadPresentation", r.ctx, p.ID).Return(p, nil).Once()
	r.responses.On("LoadResponses", r.ctx, p.ID).Return(stored, nil).Once()
}

/*
Object Mother helpers
*/
func validOptionSlide(t model.SlideType, texts ...string) model.Slide {
	slide := model.Slide{
		ID:     uuid.New(),
		Type:   t,
		Title:  "question",
		Prompt: "Pick one",
	}
	for _, text := range texts {
		slide.Options = append(slide.Options, model.Option{ID: uuid.New(), Text: text})
	}
	return slide
}

func validSlide(t model.SlideType) model.Slide {
	return model.Slide{
		ID:     uuid.New(),
		Type:   t,
		Title:  "prompt",
		Prompt: "Say something",
	}
}

func validPresentation(slides ...model.Slide) model.Presentation {
	p := model.Presentation{
		ID:         uuid.New(),
		Title:      "All hands",
		IsActive:   true,
		AccessCode: "123456",
	}
	for i, s := range slides {
		s.PresentationID = p.ID
		s.Order = i
		p.Slides = append(p.Slides, s)
	}
	return p
}

func vote(ids ...uuid.UUID) model.Vote {
	return model.Vote{OptionIDs: ids}
}

func (s *UsecaseAggregationUnitSuite) TestLoad(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources, id uuid.UUID)
		expectedError error
	}{
		{
			name: "Should reject unknown presentation",
			setupMocks: func(r *resources, id uuid.UUID) {
				r.presentations.On("LoadPresentation", r.ctx, id).Return(model.Presentation{}, model.ErrNotFound).Once()
			},
			expectedError: model.RejectUnknownPresentation,
		},
		{
			name: "Should return internal error when presentation source fails",
			setupMocks: func(r *resources, id uuid.UUID) {
				r.presentations.On("LoadPresentation", r.ctx, id).Return(model.Presentation{}, errors.New("db is down")).Once()
			},
			expectedError: ErrInternal,
		},
		{
			name: "Should return internal error when response source fails",
			setupMocks: func(r *resources, id uuid.UUID) {
				r.presentations.On("LoadPresentation", r.ctx, id).Return(model.Presentation{ID: id}, nil).Once()
				r.responses.On("LoadResponses", r.ctx, id).Return(nil, errors.New("db is down")).Once()
			},
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			id := uuid.New()
			tc.setupMocks(r, id)

			err := r.store.View(r.ctx, id, func(b *Board) error { return nil })

			assert.ErrorIs(t, err, tc.expectedError)
			assert.False(t, r.store.Loaded(id))
		})
	}
}

func (s *UsecaseAggregationUnitSuite) TestLoadOnce(t provider.T) {
	r := initResources(t)
	p := validPresentation(validSlide(model.SlideTypeWordCloud))
	r.expectLoad(p)

	for range 3 {
		require.NoError(t, r.store.View(r.ctx, p.ID, func(b *Board) error {
			assert.True(t, b.Active())
			assert.Len(t, b.Slides(), 1)
			return nil
		}))
	}
	assert.True(t, r.store.Loaded(p.ID))
}

func (s *UsecaseAggregationUnitSuite) TestLoadReplaysStoredResponses(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	feed := validSlide(model.SlideTypeFreeform)
	p := validPresentation(poll, feed)
	a, b := poll.Options[0].ID, poll.Options[1].ID
	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	textID := uuid.New()

	r.expectLoad(p,
		model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(a)},
		model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(b)},
		model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(a)},
		model.Response{ID: textID, SlideID: feed.ID, Payload: model.Text{Body: "hello"}, CreatedAt: createdAt},
		// belongs to a slide that no longer exists
		model.Response{ID: uuid.New(), SlideID: uuid.New(), Payload: vote(a)},
	)

	err := r.store.View(r.ctx, p.ID, func(board *Board) error {
		snap, err := board.Snapshot(poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{a: 2, b: 1}, snap.Tally)
		assert.Equal(t, 3, snap.Total)

		snap, err = board.Snapshot(feed.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.FreeformEntry{{ID: textID, Text: "hello", CreatedAt: createdAt}}, snap.Responses)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestApplyPoll(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	p := validPresentation(poll)
	a, b := poll.Options[0].ID, poll.Options[1].ID
	r.expectLoad(p)

	var last model.Snapshot
	for _, option := range []uuid.UUID{a, a, a, b} {
		err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
			snap, err := board.Apply(poll.ID, vote(option), time.Now())
			last = snap
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, map[uuid.UUID]int{a: 3, b: 1}, last.Tally)
	assert.Equal(t, 4, last.Total)
	assert.Equal(t, uint64(4), last.Version)
	assert.Equal(t, model.SlideTypePoll, last.Type)
	assert.Equal(t, p.ID, last.PresentationID)
}

func (s *UsecaseAggregationUnitSuite) TestApplyCountsSumToAccepted(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B", "C")
	p := validPresentation(poll)
	r.expectLoad(p)

	accepted := 0
	sequence := []model.Payload{
		vote(poll.Options[0].ID),
		vote(poll.Options[2].ID),
		vote(uuid.New()),
		vote(poll.Options[1].ID),
		vote(poll.Options[0].ID, poll.Options[1].ID),
		model.Word{Text: "nope"},
		vote(poll.Options[2].ID),
	}

	var snap model.Snapshot
	for _, payload := range sequence {
		_ = r.store.Update(r.ctx, p.ID, func(board *Board) error {
			if _, err := board.Apply(poll.ID, payload, time.Now()); err == nil {
				accepted++
			}
			snap, _ = board.Snapshot(poll.ID)
			return nil
		})
	}

	sum := 0
	for _, n := range snap.Tally {
		sum += n
	}
	assert.Equal(t, 4, accepted)
	assert.Equal(t, accepted, sum)
	assert.Equal(t, accepted, snap.Total)
}

func (s *UsecaseAggregationUnitSuite) TestApplyMultipleChoice(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B", "C")
	poll.AllowMultiple = true
	p := validPresentation(poll)
	r.expectLoad(p)

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		snap, err := board.Apply(poll.ID, vote(poll.Options[0].ID, poll.Options[2].ID), time.Now())
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{poll.Options[0].ID: 1, poll.Options[1].ID: 0, poll.Options[2].ID: 1}, snap.Tally)
		assert.Equal(t, 1, snap.Total)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestApplyQuizCountsCorrect(t provider.T) {
	r := initResources(t)
	quiz := validOptionSlide(model.SlideTypeQuiz, "Paris", "Lyon")
	quiz.Options[0].IsCorrect = true
	p := validPresentation(quiz)
	r.expectLoad(p)

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		for _, id := range []uuid.UUID{quiz.Options[0].ID, quiz.Options[1].ID, quiz.Options[0].ID} {
			_, err := board.Apply(quiz.ID, vote(id), time.Now())
			require.NoError(t, err)
		}
		snap, err := board.Snapshot(quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Correct)
		assert.Equal(t, 3, snap.Total)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestApplyWordCloud(t provider.T) {
	r := initResources(t)
	cloud := validSlide(model.SlideTypeWordCloud)
	p := validPresentation(cloud)
	r.expectLoad(p)

	var snap model.Snapshot
	for _, w := range []string{"Cat", "cat ", "CAT"} {
		err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
			var err error
			snap, err = board.Apply(cloud.ID, model.Word{Text: w}, time.Now())
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]int{"cat": 3}, snap.Words)
	assert.Equal(t, 3, snap.Total)
}

func (s *UsecaseAggregationUnitSuite) TestApplyWordCloudCapsLength(t provider.T) {
	presentations := mocks.NewPresentationSource(t)
	responses := mocks.NewResponseSource(t)
	store := New(presentations, responses, WithLimits(Limits{MaxWordLength: 4}))
	ctx := context.Background()
	cloud := validSlide(model.SlideTypeWordCloud)
	p := validPresentation(cloud)
	presentations.On("LoadPresentation", ctx, p.ID).Return(p, nil).Once()
	responses.On("LoadResponses", ctx, p.ID).Return(nil, nil).Once()

	err := store.Update(ctx, p.ID, func(board *Board) error {
		snap, err := board.Apply(cloud.ID, model.Word{Text: "Elephant"}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"elep": 1}, snap.Words)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestApplyFreeform(t provider.T) {
	r := initResources(t)
	feed := validSlide(model.SlideTypeFreeform)
	p := validPresentation(feed)
	r.expectLoad(p)
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		_, err := board.Apply(feed.ID, model.Text{Body: " same "}, at)
		require.NoError(t, err)
		snap, err := board.Apply(feed.ID, model.Text{Body: "same"}, at.Add(time.Second))
		require.NoError(t, err)

		require.Len(t, snap.Responses, 2)
		assert.Equal(t, "same", snap.Responses[0].Text)
		assert.Equal(t, at, snap.Responses[0].CreatedAt)
		assert.Equal(t, at.Add(time.Second), snap.Responses[1].CreatedAt)
		assert.NotEqual(t, snap.Responses[0].ID, snap.Responses[1].ID)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestApplyRejectsMalformed(t provider.T) {
	t.Parallel()

	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	cloud := validSlide(model.SlideTypeWordCloud)
	feed := validSlide(model.SlideTypeFreeform)

	testCases := []struct {
		name          string
		slide         model.Slide
		payload       model.Payload
		expectedError error
	}{
		{name: "Should reject word on poll", slide: poll, payload: model.Word{Text: "A"}, expectedError: model.RejectMalformedPayload},
		{name: "Should reject unknown option", slide: poll, payload: vote(uuid.New()), expectedError: model.RejectMalformedPayload},
		{name: "Should reject empty vote", slide: poll, payload: vote(), expectedError: model.RejectMalformedPayload},
		{name: "Should reject several options on single choice", slide: poll, payload: vote(poll.Options[0].ID, poll.Options[1].ID), expectedError: model.RejectMalformedPayload},
		{name: "Should reject vote on word cloud", slide: cloud, payload: vote(poll.Options[0].ID), expectedError: model.RejectMalformedPayload},
		{name: "Should reject blank word", slide: cloud, payload: model.Word{Text: "  "}, expectedError: model.RejectMalformedPayload},
		{name: "Should reject blank text", slide: feed, payload: model.Text{Body: "\n"}, expectedError: model.RejectMalformedPayload},
		{name: "Should reject word on freeform", slide: feed, payload: model.Word{Text: "hi"}, expectedError: model.RejectMalformedPayload},
		{name: "Should reject unknown slide", slide: validSlide(model.SlideTypeFreeform), payload: model.Text{Body: "hi"}, expectedError: model.RejectUnknownSlide},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			p := validPresentation(poll, cloud, feed)
			r.expectLoad(p)

			err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
				before := board.Snapshots()
				_, err := board.Apply(tc.slide.ID, tc.payload, time.Now())
				assert.Equal(t, before, board.Snapshots())
				return err
			})

			assert.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func (s *UsecaseAggregationUnitSuite) TestSnapshotIsDetached(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	cloud := validSlide(model.SlideTypeWordCloud)
	feed := validSlide(model.SlideTypeFreeform)
	p := validPresentation(poll, cloud, feed)
	r.expectLoad(p)

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		pollSnap, _ := board.Apply(poll.ID, vote(poll.Options[0].ID), time.Now())
		cloudSnap, _ := board.Apply(cloud.ID, model.Word{Text: "go"}, time.Now())
		feedSnap, _ := board.Apply(feed.ID, model.Text{Body: "hi"}, time.Now())

		pollSnap.Tally[poll.Options[0].ID] = 100
		cloudSnap.Words["go"] = 100
		feedSnap.Responses[0].Text = "changed"

		pollSnap, _ = board.Snapshot(poll.ID)
		cloudSnap, _ = board.Snapshot(cloud.ID)
		feedSnap, _ = board.Snapshot(feed.ID)
		assert.Equal(t, 1, pollSnap.Tally[poll.Options[0].ID])
		assert.Equal(t, 1, cloudSnap.Words["go"])
		assert.Equal(t, "hi", feedSnap.Responses[0].Text)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestConcurrentApply(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	p := validPresentation(poll)
	r.expectLoad(p)

	const workers, perWorker = 16, 50
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			option := poll.Options[w%2].ID
			for range perWorker {
				_ = r.store.Update(r.ctx, p.ID, func(board *Board) error {
					_, err := board.Apply(poll.ID, vote(option), time.Now())
					return err
				})
			}
		}()
	}
	wg.Wait()

	err := r.store.View(r.ctx, p.ID, func(board *Board) error {
		snap, err := board.Snapshot(poll.ID)
		require.NoError(t, err)
		assert.Equal(t, workers*perWorker, snap.Total)
		assert.Equal(t, workers*perWorker/2, snap.Tally[poll.Options[0].ID])
		assert.Equal(t, workers*perWorker/2, snap.Tally[poll.Options[1].ID])
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestCursor(t provider.T) {
	r := initResources(t)
	first := validOptionSlide(model.SlideTypeQuiz, "A", "B")
	first.Options[1].IsCorrect = true
	second := validSlide(model.SlideTypeWordCloud)
	p := validPresentation(first, second)
	r.expectLoad(p)

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		_, live := board.Cursor().Live()
		assert.False(t, live)

		_, err := board.SetLive(uuid.New())
		assert.ErrorIs(t, err, model.RejectUnknownSlide)

		cursor, err := board.SetLive(first.ID)
		require.NoError(t, err)
		id, live := cursor.Live()
		assert.True(t, live)
		assert.Equal(t, first.ID, id)

		q := board.ActiveQuestion()
		require.NotNil(t, q.Slide)
		assert.Equal(t, first.ID, q.Slide.ID)
		assert.Len(t, q.Slide.Options, 2)

		cursor, err = board.SetLive(second.ID)
		require.NoError(t, err)
		id, _ = cursor.Live()
		assert.Equal(t, second.ID, id)

		assert.False(t, board.Untrack(first.ID))
		assert.True(t, board.Untrack(second.ID))
		_, live = board.Cursor().Live()
		assert.False(t, live)
		assert.Nil(t, board.ActiveQuestion().Slide)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestTrack(t provider.T) {
	r := initResources(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	p := validPresentation(poll)
	r.expectLoad(p)
	a, b := poll.Options[0].ID, poll.Options[1].ID

	err := r.store.Update(r.ctx, p.ID, func(board *Board) error {
		_, _ = board.Apply(poll.ID, vote(a), time.Now())
		_, _ = board.Apply(poll.ID, vote(b), time.Now())

		edited := poll
		c := model.Option{ID: uuid.New(), Text: "C"}
		edited.Options = []model.Option{poll.Options[0], c}
		require.NoError(t, board.Track(edited))

		snap, err := board.Snapshot(poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{a: 1, c.ID: 0}, snap.Tally)

		edited.Type = model.SlideTypeWordCloud
		assert.ErrorIs(t, board.Track(edited), ErrSlideTypeChanged)

		fresh := validSlide(model.SlideTypeFreeform)
		require.NoError(t, board.Track(fresh))
		snap, err = board.Snapshot(fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Total)

		assert.ErrorIs(t, board.Track(model.Slide{ID: uuid.New(), Type: "SLIDER"}), ErrUnsupportedSlideType)
		return nil
	})
	assert.NoError(t, err)
}

func (s *UsecaseAggregationUnitSuite) TestDiscard(t provider.T) {
	r := initResources(t)
	p := validPresentation(validSlide(model.SlideTypeFreeform))
	r.expectLoad(p)

	require.NoError(t, r.store.View(r.ctx, p.ID, func(*Board) error { return nil }))
	r.store.Discard(p.ID)

	assert.False(t, r.store.Loaded(p.ID))
	err := r.store.View(r.ctx, p.ID, func(*Board) error { return nil })
	assert.ErrorIs(t, err, model.RejectUnknownPresentation)
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseAggregationUnitSuite))
}
