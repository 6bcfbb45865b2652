package usecase_aggregation

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

type board struct {
	mu        sync.Mutex
	id        uuid.UUID
	active    bool
	live      *uuid.UUID
	seq       uint64
	slots     map[uuid.UUID]*slot
	discarded bool
}

type slot struct {
	slide   model.Slide
	acc     accumulator
	version uint64
}

func (b *board) track(slide model.Slide, limits Limits) error {
	if s, ok := b.slots[slide.ID]; ok {
		if s.slide.Type != slide.Type {
			return ErrSlideTypeChanged
		}
		s.slide = slide
		s.acc.reshape(slide)
		s.version++
		return nil
	}

	acc, err := newAccumulator(slide, limits)
	if err != nil {
		return err
	}
	b.slots[slide.ID] = &slot{slide: slide, acc: acc}
	return nil
}

func (b *board) record(r model.Response) (*slot, error) {
	s, ok := b.slots[r.SlideID]
	if !ok {
		return nil, model.RejectUnknownSlide
	}
	if err := s.acc.record(r); err != nil {
		return nil, err
	}
	s.version++
	return s, nil
}

func (b *board) snapshot(s *slot) model.Snapshot {
	snap := model.Snapshot{
		PresentationID: b.id,
		SlideID:        s.slide.ID,
		Type:           s.slide.Type,
		Version:        s.version,
		Total:          s.acc.total(),
	}
	s.acc.fill(&snap)
	return snap
}

// Board is the live state of one presentation: active flag, cursor and one
// accumulator per slide. It is only valid inside Store.Update / Store.View.
type Board struct {
	b      *board
	limits Limits
}

func (b *Board) ID() uuid.UUID {
	return b.b.id
}

func (b *Board) Active() bool {
	return b.b.active
}

func (b *Board) SetActive(active bool) {
	b.b.active = active
}

func (b *Board) Cursor() model.Cursor {
	c := model.Cursor{PresentationID: b.b.id}
	if b.b.live != nil {
		id := *b.b.live
		c.SlideID = &id
	}
	return c
}

// SetLive moves the cursor to slideID whatever it pointed at before.
func (b *Board) SetLive(slideID uuid.UUID) (model.Cursor, error) {
	if _, ok := b.b.slots[slideID]; !ok {
		return b.Cursor(), model.RejectUnknownSlide
	}
	b.b.live = &slideID
	b.b.seq++
	return b.Cursor(), nil
}

func (b *Board) ClearLive() model.Cursor {
	b.b.live = nil
	b.b.seq++
	return b.Cursor()
}

func (b *Board) ActiveQuestion() model.ActiveQuestion {
	q := model.ActiveQuestion{PresentationID: b.b.id, Seq: b.b.seq}
	if b.b.live == nil {
		return q
	}
	id := *b.b.live
	q.SlideID = &id
	if s, ok := b.b.slots[id]; ok {
		view := s.slide.AudienceView()
		q.Slide = &view
	}
	return q
}

func (b *Board) Slide(id uuid.UUID) (model.Slide, bool) {
	s, ok := b.b.slots[id]
	if !ok {
		return model.Slide{}, false
	}
	return s.slide, true
}

// Slides returns the tracked slides ordered by Order.
func (b *Board) Slides() []model.Slide {
	out := make([]model.Slide, 0, len(b.b.slots))
	for _, s := range b.b.slots {
		out = append(out, s.slide)
	}
	slices.SortFunc(out, func(x, y model.Slide) int {
		return x.Order - y.Order
	})
	return out
}

// Track creates an empty accumulator for a new slide, or adopts the edited
// definition of a known one. The slide type of a known slide cannot change.
func (b *Board) Track(slide model.Slide) error {
	return b.b.track(slide, b.limits)
}

// Untrack drops the slide and its accumulator. Reports whether the slide was live.
func (b *Board) Untrack(slideID uuid.UUID) bool {
	delete(b.b.slots, slideID)
	if b.b.live != nil && *b.b.live == slideID {
		b.b.live = nil
		b.b.seq++
		return true
	}
	return false
}

// Apply folds payload into the slide's accumulator and returns the new snapshot.
func (b *Board) Apply(slideID uuid.UUID, payload model.Payload, at time.Time) (model.Snapshot, error) {
	return b.Record(model.Response{
		ID:             uuid.New(),
		PresentationID: b.b.id,
		SlideID:        slideID,
		Payload:        payload,
		CreatedAt:      at,
	})
}

// Record is Apply for a response that already has its identity.
// A failed record leaves the accumulator untouched.
func (b *Board) Record(r model.Response) (model.Snapshot, error) {
	s, err := b.b.record(r)
	if err != nil {
		return model.Snapshot{}, err
	}
	return b.b.snapshot(s), nil
}

func (b *Board) Snapshot(slideID uuid.UUID) (model.Snapshot, error) {
	s, ok := b.b.slots[slideID]
	if !ok {
		return model.Snapshot{}, model.RejectUnknownSlide
	}
	return b.b.snapshot(s), nil
}

// Snapshots returns one snapshot per slide in slide order.
func (b *Board) Snapshots() []model.Snapshot {
	slides := b.Slides()
	out := make([]model.Snapshot, 0, len(slides))
	for _, slide := range slides {
		out = append(out, b.b.snapshot(b.b.slots[slide.ID]))
	}
	return out
}
