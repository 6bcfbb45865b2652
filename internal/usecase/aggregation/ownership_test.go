package usecase_aggregation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	mocks "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation/mocks/source"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// owners is the lease table shared by several stores.
type owners struct {
	mu     sync.Mutex
	holder map[uuid.UUID]string
	err    error
}

type instance struct {
	table *owners
	name  string
}

func (i *instance) Claim(_ context.Context, id uuid.UUID) (bool, error) {
	i.table.mu.Lock()
	defer i.table.mu.Unlock()
	if i.table.err != nil {
		return false, i.table.err
	}
	holder, held := i.table.holder[id]
	if held && holder != i.name {
		return false, model.ErrNotOwner
	}
	i.table.holder[id] = i.name
	return !held, nil
}

func (i *instance) Release(_ context.Context, id uuid.UUID) error {
	i.table.mu.Lock()
	defer i.table.mu.Unlock()
	if i.table.holder[id] == i.name {
		delete(i.table.holder, id)
	}
	return nil
}

func (t *owners) expire(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.holder, id)
}

type cluster struct {
	table *owners
	a, b  *resources
}

func initCluster(t provider.T) *cluster {
	table := &owners{holder: make(map[uuid.UUID]string)}
	node := func(name string) *resources {
		presentations := mocks.NewPresentationSource(t)
		responses := mocks.NewResponseSource(t)
		return &resources{
			store:         New(presentations, responses, WithOwnership(&instance{table: table, name: name})),
			presentations: presentations,
			responses:     responses,
			ctx:           context.Background(),
		}
	}
	return &cluster{table: table, a: node("a"), b: node("b")}
}

func (s *UsecaseAggregationUnitSuite) TestOwnership(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		setup func(c *cluster, id uuid.UUID)
		err   error
	}{
		{
			name:  "Should refuse a presentation served by another instance",
			setup: func(c *cluster, id uuid.UUID) {},
			err:   model.ErrNotOwner,
		},
		{
			name: "Should report a failing lease as internal error",
			setup: func(c *cluster, id uuid.UUID) {
				c.table.err = errors.New("redis is down")
			},
			err: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			c := initCluster(t)
			p := validPresentation(validSlide(model.SlideTypeFreeform))
			c.a.expectLoad(p)
			require.NoError(t, c.a.store.View(c.a.ctx, p.ID, func(*Board) error { return nil }))

			tc.setup(c, p.ID)
			err := c.b.store.Update(c.b.ctx, p.ID, func(*Board) error { return nil })

			assert.ErrorIs(t, err, tc.err)
			assert.False(t, c.b.store.Loaded(p.ID))
			assert.ErrorIs(t, c.b.store.Claim(c.b.ctx, p.ID), tc.err)
		})
	}
}

func (s *UsecaseAggregationUnitSuite) TestTakeoverReloadsBoard(t provider.T) {
	c := initCluster(t)
	poll := validOptionSlide(model.SlideTypePoll, "A", "B")
	p := validPresentation(poll)
	a, b := poll.Options[0].ID, poll.Options[1].ID
	at := time.Now()

	c.a.expectLoad(p)
	require.NoError(t, c.a.store.Update(c.a.ctx, p.ID, func(board *Board) error {
		_, err := board.Apply(poll.ID, vote(a), at)
		return err
	}))

	// a stops renewing, b serves the presentation and takes a vote
	c.table.expire(p.ID)
	c.b.expectLoad(p, model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(a)})
	require.NoError(t, c.b.store.Update(c.b.ctx, p.ID, func(board *Board) error {
		_, err := board.Apply(poll.ID, vote(b), at)
		return err
	}))

	err := c.a.store.View(c.a.ctx, p.ID, func(*Board) error { return nil })
	require.ErrorIs(t, err, model.ErrNotOwner)
	assert.False(t, c.a.store.Loaded(p.ID))

	// b hands the presentation back; a must not reuse what it had before
	c.b.store.Discard(p.ID)
	c.a.expectLoad(p,
		model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(a)},
		model.Response{ID: uuid.New(), SlideID: poll.ID, Payload: vote(b)},
	)
	require.NoError(t, c.a.store.View(c.a.ctx, p.ID, func(board *Board) error {
		snap, err := board.Snapshot(poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{a: 1, b: 1}, snap.Tally)
		return nil
	}))
}

func (s *UsecaseAggregationUnitSuite) TestDiscardReleasesOwnership(t provider.T) {
	c := initCluster(t)
	p := validPresentation(validSlide(model.SlideTypeWordCloud))
	c.a.expectLoad(p)
	require.NoError(t, c.a.store.View(c.a.ctx, p.ID, func(*Board) error { return nil }))

	c.a.store.Discard(p.ID)

	c.table.mu.Lock()
	_, held := c.table.holder[p.ID]
	c.table.mu.Unlock()
	assert.False(t, held)
}
