package usecase_cursor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
)

type Publisher interface {
	Publish(topic string, event model.Event)
}

// Usecase moves the live-slide cursor of a presentation. Every transition is
// announced on the presentation's active-question topic.
type Usecase struct {
	store     *usecase_aggregation.Store
	publisher Publisher
	logger    *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(
	store *usecase_aggregation.Store,
	publisher Publisher,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Activate makes slideID the live slide regardless of the previous state.
func (u *Usecase) Activate(ctx context.Context, presentationID, slideID uuid.UUID) (model.ActiveQuestion, error) {
	return u.transition(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		_, err := b.SetLive(slideID)
		return err
	})
}

func (u *Usecase) Deactivate(ctx context.Context, presentationID uuid.UUID) (model.ActiveQuestion, error) {
	return u.transition(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		b.ClearLive()
		return nil
	})
}

func (u *Usecase) Current(ctx context.Context, presentationID uuid.UUID) (model.ActiveQuestion, error) {
	var q model.ActiveQuestion
	err := u.store.View(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		q = b.ActiveQuestion()
		return nil
	})
	if err != nil {
		return model.ActiveQuestion{}, err
	}
	return q, nil
}

func (u *Usecase) transition(
	ctx context.Context,
	presentationID uuid.UUID,
	move func(b *usecase_aggregation.Board) error,
) (model.ActiveQuestion, error) {
	var q model.ActiveQuestion
	err := u.store.Update(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		if err := move(b); err != nil {
			return err
		}
		q = b.ActiveQuestion()
		return nil
	})
	if err != nil {
		return model.ActiveQuestion{}, err
	}

	// Board lock is released here
	topic := model.ActiveQuestionTopic(presentationID)
	u.publisher.Publish(topic, model.NewEvent(topic, model.EventActiveQuestion, q))

	u.logger.Info("cursor moved",
		"presentation", presentationID,
		"slide", q.SlideID,
		"seq", q.Seq)
	return q, nil
}
