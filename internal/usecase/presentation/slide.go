package usecase_presentation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
)

const minOptions = 2

type OptionInput struct {
	// uuid.Nil for a new option
	ID        uuid.UUID
	Text      string
	IsCorrect bool
}

type SlideInput struct {
	Type          model.SlideType
	Title         string
	Prompt        string
	Options       []OptionInput
	AllowMultiple bool
	// Position to insert at; nil appends.
	Order *int
}

func (u *Usecase) AddSlide(ctx context.Context, presentationID uuid.UUID, in SlideInput) (model.Slide, error) {
	u.editMu.Lock()
	defer u.editMu.Unlock()

	if err := u.store.Claim(ctx, presentationID); err != nil {
		return model.Slide{}, u.boardError(err)
	}

	p, err := u.presentations.LoadPresentation(ctx, presentationID)
	if err != nil {
		return model.Slide{}, u.repoError(err)
	}

	slide := model.Slide{
		ID:             uuid.New(),
		PresentationID: presentationID,
		Type:           in.Type,
		Title:          strings.TrimSpace(in.Title),
		Prompt:         strings.TrimSpace(in.Prompt),
		AllowMultiple:  in.AllowMultiple,
		Order:          clampOrder(in.Order, len(p.Slides)),
	}
	slide.Options, err = buildOptions(in.Type, in.Options, nil)
	if err != nil {
		return model.Slide{}, err
	}
	if err := validateSlide(slide); err != nil {
		return model.Slide{}, err
	}

	if err := u.presentations.AddSlide(ctx, slide); err != nil {
		return model.Slide{}, u.repoError(err)
	}
	if err := u.resync(ctx, presentationID, uuid.Nil); err != nil {
		return model.Slide{}, err
	}
	return slide, nil
}

// UpdateSlide replaces the slide definition. Options keeping their id keep
// their counts. The slide type cannot change.
func (u *Usecase) UpdateSlide(ctx context.Context, presentationID, slideID uuid.UUID, in SlideInput) (model.Slide, error) {
	u.editMu.Lock()
	defer u.editMu.Unlock()

	if err := u.store.Claim(ctx, presentationID); err != nil {
		return model.Slide{}, u.boardError(err)
	}

	p, err := u.presentations.LoadPresentation(ctx, presentationID)
	if err != nil {
		return model.Slide{}, u.repoError(err)
	}
	slide, ok := p.Slide(slideID)
	if !ok {
		return model.Slide{}, ErrResourceNotFound
	}
	if in.Type != "" && in.Type != slide.Type {
		return model.Slide{}, errors.Join(ErrInvalidInput, errors.New("slide type cannot change"))
	}

	slide.Title = strings.TrimSpace(in.Title)
	slide.Prompt = strings.TrimSpace(in.Prompt)
	slide.AllowMultiple = in.AllowMultiple
	slide.Options, err = buildOptions(slide.Type, in.Options, slide.Options)
	if err != nil {
		return model.Slide{}, err
	}
	if err := validateSlide(slide); err != nil {
		return model.Slide{}, err
	}

	if err := u.presentations.UpdateSlide(ctx, slide); err != nil {
		return model.Slide{}, u.repoError(err)
	}
	if in.Order != nil && *in.Order != slide.Order {
		order := moveTo(p.Slides, slideID, clampOrder(in.Order, len(p.Slides)-1))
		if err := u.presentations.ReorderSlides(ctx, presentationID, order); err != nil {
			return model.Slide{}, u.repoError(err)
		}
		slide.Order = slices.Index(order, slideID)
	}

	if err := u.resync(ctx, presentationID, slideID); err != nil {
		return model.Slide{}, err
	}
	return slide, nil
}

// MoveSlide puts the slide at position order, shifting the others.
func (u *Usecase) MoveSlide(ctx context.Context, presentationID, slideID uuid.UUID, order int) (model.Slide, error) {
	u.editMu.Lock()
	defer u.editMu.Unlock()

	if err := u.store.Claim(ctx, presentationID); err != nil {
		return model.Slide{}, u.boardError(err)
	}

	p, err := u.presentations.LoadPresentation(ctx, presentationID)
	if err != nil {
		return model.Slide{}, u.repoError(err)
	}
	slide, ok := p.Slide(slideID)
	if !ok {
		return model.Slide{}, ErrResourceNotFound
	}
	if order < 0 || order >= len(p.Slides) {
		return model.Slide{}, errors.Join(ErrInvalidInput, fmt.Errorf("order must be within [0, %d]", len(p.Slides)-1))
	}
	if order == slide.Order {
		return slide, nil
	}

	ids := moveTo(p.Slides, slideID, order)
	if err := u.presentations.ReorderSlides(ctx, presentationID, ids); err != nil {
		return model.Slide{}, u.repoError(err)
	}
	if err := u.resync(ctx, presentationID, uuid.Nil); err != nil {
		return model.Slide{}, err
	}

	slide.Order = order
	return slide, nil
}

// DeleteSlide removes the slide and its results. A live slide stops being live.
func (u *Usecase) DeleteSlide(ctx context.Context, presentationID, slideID uuid.UUID) error {
	u.editMu.Lock()
	defer u.editMu.Unlock()

	if err := u.store.Claim(ctx, presentationID); err != nil {
		return u.boardError(err)
	}

	if err := u.presentations.DeleteSlide(ctx, presentationID, slideID); err != nil {
		return u.repoError(err)
	}
	return u.resync(ctx, presentationID, uuid.Nil)
}

// resync makes the board mirror the stored slides. The active question is
// re-announced when the live slide disappears or when touched is live.
func (u *Usecase) resync(ctx context.Context, presentationID, touched uuid.UUID) error {
	p, err := u.presentations.LoadPresentation(ctx, presentationID)
	if err != nil {
		return u.repoError(err)
	}

	var (
		q        model.ActiveQuestion
		announce bool
	)
	err = u.store.Update(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		b.SetActive(p.IsActive)

		keep := make(map[uuid.UUID]struct{}, len(p.Slides))
		for _, slide := range p.Slides {
			keep[slide.ID] = struct{}{}
			if err := b.Track(slide); err != nil {
				return err
			}
		}
		for _, slide := range b.Slides() {
			if _, ok := keep[slide.ID]; !ok && b.Untrack(slide.ID) {
				announce = true
			}
		}

		if live, ok := b.Cursor().Live(); ok && live == touched {
			announce = true
		}
		q = b.ActiveQuestion()
		return nil
	})
	if err != nil {
		return u.boardError(err)
	}

	if announce {
		topic := model.ActiveQuestionTopic(presentationID)
		u.publisher.Publish(topic, model.NewEvent(topic, model.EventActiveQuestion, q))
	}
	return nil
}

func clampOrder(order *int, last int) int {
	if order == nil || *order > last {
		return last
	}
	return max(*order, 0)
}

// moveTo returns slide ids in their new order after moving id to position to.
func moveTo(slides []model.Slide, id uuid.UUID, to int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(slides))
	for _, s := range slides {
		if s.ID != id {
			ids = append(ids, s.ID)
		}
	}
	return slices.Insert(ids, to, id)
}

func buildOptions(t model.SlideType, in []OptionInput, existing []model.Option) ([]model.Option, error) {
	if !t.HasOptions() {
		if len(in) > 0 {
			return nil, errors.Join(ErrInvalidInput, fmt.Errorf("%s slides take no options", t))
		}
		return nil, nil
	}

	out := make([]model.Option, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for _, o := range in {
		id := o.ID
		if id == uuid.Nil {
			id = uuid.New()
		} else if !slices.ContainsFunc(existing, func(e model.Option) bool { return e.ID == id }) {
			return nil, errors.Join(ErrInvalidInput, fmt.Errorf("unknown option %s", id))
		}
		if _, dup := seen[id]; dup {
			return nil, errors.Join(ErrInvalidInput, fmt.Errorf("option %s listed twice", id))
		}
		seen[id] = struct{}{}

		out = append(out, model.Option{
			ID:        id,
			Text:      strings.TrimSpace(o.Text),
			IsCorrect: t == model.SlideTypeQuiz && o.IsCorrect,
		})
	}
	return out, nil
}

func validateSlide(s model.Slide) error {
	if !s.Type.Valid() {
		return errors.Join(ErrInvalidInput, fmt.Errorf("unknown slide type %q", s.Type))
	}
	if s.Prompt == "" && s.Title == "" {
		return errors.Join(ErrInvalidInput, errors.New("title or prompt is required"))
	}
	if !s.Type.HasOptions() {
		return nil
	}

	if len(s.Options) < minOptions {
		return errors.Join(ErrInvalidInput, fmt.Errorf("at least %d options are required", minOptions))
	}
	correct := 0
	for _, o := range s.Options {
		if o.Text == "" {
			return errors.Join(ErrInvalidInput, errors.New("option text is required"))
		}
		if o.IsCorrect {
			correct++
		}
	}

	if s.Type == model.SlideTypeQuiz {
		if correct == 0 {
			return errors.Join(ErrInvalidInput, errors.New("quiz needs a correct option"))
		}
		if !s.AllowMultiple && correct > 1 {
			return errors.Join(ErrInvalidInput, errors.New("single choice quiz has one correct option"))
		}
	}
	return nil
}
