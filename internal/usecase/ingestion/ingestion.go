package usecase_ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
)

var (
	ErrInternal = errors.New("internal error")
)

//go:generate mockery --name=ResponseRepository --output=./mocks/repository --filename=response.go
type ResponseRepository interface {
	Append(ctx context.Context, r model.Response) error
}

type Publisher interface {
	Publish(topic string, event model.Event)
}

// Usecase accepts audience submissions for the live slide of a presentation.
type Usecase struct {
	store     *usecase_aggregation.Store
	publisher Publisher
	responses ResponseRepository
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(
	store *usecase_aggregation.Store,
	publisher Publisher,
	responses ResponseRepository,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		store:     store,
		publisher: publisher,
		responses: responses,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submit validates the submission against the presentation state and folds it
// into the slide's aggregate. Rejections are model.RejectReason values and
// leave every aggregate untouched.
func (u *Usecase) Submit(ctx context.Context, sub model.Submission) (model.Ack, error) {
	response := model.Response{
		ID:             uuid.New(),
		PresentationID: sub.PresentationID,
		SlideID:        sub.SlideID,
		MemberID:       sub.MemberID,
		Payload:        sub.Payload,
		CreatedAt:      u.now(),
	}

	var snap model.Snapshot
	err := u.store.Update(ctx, sub.PresentationID, func(b *usecase_aggregation.Board) error {
		if !b.Active() {
			return model.RejectPresentationInactive
		}
		if _, ok := b.Slide(sub.SlideID); !ok {
			return model.RejectUnknownSlide
		}
		if live, ok := b.Cursor().Live(); !ok || live != sub.SlideID {
			return model.RejectSlideNotLive
		}
		if sub.Payload == nil {
			return model.RejectMalformedPayload
		}

		var err error
		snap, err = b.Record(response)
		return err
	})
	if err != nil {
		u.logger.Debug("submission rejected",
			"presentation", sub.PresentationID,
			"slide", sub.SlideID,
			"error", err)
		return model.Ack{}, err
	}

	u.broadcast(snap)

	if err := u.responses.Append(ctx, response); err != nil {
		u.logger.Error("failed to persist response",
			"presentation", sub.PresentationID,
			"slide", sub.SlideID,
			"response", response.ID,
			slog.String("error", err.Error()))
	}

	return model.Ack{
		PresentationID: sub.PresentationID,
		SlideID:        sub.SlideID,
		AcceptedAt:     response.CreatedAt,
		Snapshot:       snap,
	}, nil
}

func (u *Usecase) broadcast(snap model.Snapshot) {
	slideTopic := model.SlideTopic(snap.PresentationID, snap.SlideID)
	u.publisher.Publish(slideTopic, model.NewEvent(slideTopic, model.EventSlideResults, snap))

	resultsTopic := model.ResultsTopic(snap.PresentationID, snap.Type)
	u.publisher.Publish(resultsTopic, model.NewEvent(resultsTopic, model.EventSlideResults, snap))
}

func (u *Usecase) Results(ctx context.Context, presentationID, slideID uuid.UUID) (model.Snapshot, error) {
	var snap model.Snapshot
	err := u.store.View(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		var err error
		snap, err = b.Snapshot(slideID)
		return err
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// AllResults returns the snapshots of every slide in slide order.
func (u *Usecase) AllResults(ctx context.Context, presentationID uuid.UUID) ([]model.Snapshot, error) {
	var snaps []model.Snapshot
	err := u.store.View(ctx, presentationID, func(b *usecase_aggregation.Board) error {
		snaps = b.Snapshots()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snaps, nil
}
