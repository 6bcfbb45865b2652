package usecase_presentation

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_aggregation "github.com/humanbelnik/pollcast/core/internal/usecase/aggregation"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCodeConflict     = errors.New("code conflict")
	ErrCodesUnavailable = errors.New("no available access codes")
	ErrResourceNotFound = errors.New("no such resource")
	ErrInternal         = errors.New("internal error")
)

//go:generate mockery --name=PresentationRepository --output=./mocks/repository --filename=presentation.go
type PresentationRepository interface {
	Create(ctx context.Context, p model.Presentation) error
	List(ctx context.Context) ([]model.Presentation, error)
	ListActive(ctx context.Context) ([]model.Presentation, error)
	ListByPresenter(ctx context.Context, createdBy string) ([]model.Presentation, error)
	// Presentation with its slides ordered by position.
	LoadPresentation(ctx context.Context, id uuid.UUID) (model.Presentation, error)
	Update(ctx context.Context, p model.Presentation) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Only active presentations are reachable by code.
	ByAccessCode(ctx context.Context, code string) (model.Presentation, error)

	// AddSlide inserts at slide.Order shifting the following slides.
	AddSlide(ctx context.Context, slide model.Slide) error
	UpdateSlide(ctx context.Context, slide model.Slide) error
	// DeleteSlide removes the slide and closes the gap it leaves.
	DeleteSlide(ctx context.Context, presentationID, slideID uuid.UUID) error
	// ReorderSlides assigns each slide its index in order.
	ReorderSlides(ctx context.Context, presentationID uuid.UUID, order []uuid.UUID) error
}

//go:generate mockery --name=AudienceRepository --output=./mocks/repository --filename=audience.go
type AudienceRepository interface {
	Join(ctx context.Context, member model.AudienceMember) error
	Leave(ctx context.Context, presentationID, memberID uuid.UUID) error
	List(ctx context.Context, presentationID uuid.UUID) ([]model.AudienceMember, error)
	Count(ctx context.Context, presentationID uuid.UUID) (int, error)
	Clear(ctx context.Context, presentationID uuid.UUID) error
}

//go:generate mockery --name=TokenIssuer --output=./mocks/auth --filename=token.go
type TokenIssuer interface {
	Issue(ctx context.Context, presentationID uuid.UUID) (string, error)
	Revoke(ctx context.Context, token string) error
}

type Publisher interface {
	Publish(topic string, event model.Event)
}

type Usecase struct {
	presentations PresentationRepository
	audience      AudienceRepository
	tokens        TokenIssuer
	store         *usecase_aggregation.Store
	publisher     Publisher

	now    func() time.Time
	logger *slog.Logger

	// Serializes slide edits so board resyncs are applied in write order.
	editMu sync.Mutex
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
	presentations PresentationRepository,
	audience AudienceRepository,
	tokens TokenIssuer,
	store *usecase_aggregation.Store,
	publisher Publisher,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		presentations: presentations,
		audience:      audience,
		tokens:        tokens,
		store:         store,
		publisher:     publisher,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type CreateInput struct {
	Title       string
	Description string
	CreatedBy   string
}

// Create stores a new active presentation and returns it with the presenter
// token that authorizes further edits.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (model.Presentation, string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Presentation{}, "", errors.Join(ErrInvalidInput, errors.New("title is required"))
	}

	now := u.now()
	p := model.Presentation{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		Slides:      []model.Slide{},
	}

	err := u.withFreshCode(&p, func() error {
		return u.presentations.Create(ctx, p)
	})
	if err != nil {
		return model.Presentation{}, "", err
	}

	token, err := u.tokens.Issue(ctx, p.ID)
	if err != nil {
		return model.Presentation{}, "", errors.Join(ErrInternal, err)
	}

	u.logger.Info("presentation created", "presentation", p.ID, "code", p.AccessCode)
	return p, token, nil
}

// Assuming that codes can conflict.
// Retrying...
func (u *Usecase) withFreshCode(p *model.Presentation, write func() error) error {
	var retries = 3
	for retries > 0 {
		p.AccessCode = u.buildAccessCode()
		if err := write(); err != nil {
			if errors.Is(err, model.ErrConflict) {
				retries--
			} else {
				return u.repoError(err)
			}
		} else {
			return nil
		}
	}
	return ErrCodesUnavailable
}

func (u *Usecase) buildAccessCode() string {
	var builder strings.Builder
	builder.Grow(model.AccessCodeLength)

	for range model.AccessCodeLength {
		builder.WriteByte(byte(rand.Intn(10)) + '0')
	}

	return builder.String()
}

func (u *Usecase) repoError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return ErrResourceNotFound
	case errors.Is(err, model.ErrConflict):
		return ErrCodeConflict
	}
	return errors.Join(ErrInternal, err)
}

func (u *Usecase) List(ctx context.Context) ([]model.Presentation, error) {
	ps, err := u.presentations.List(ctx)
	if err != nil {
		return nil, u.repoError(err)
	}
	return ps, nil
}

func (u *Usecase) ListActive(ctx context.Context) ([]model.Presentation, error) {
	ps, err := u.presentations.ListActive(ctx)
	if err != nil {
		return nil, u.repoError(err)
	}
	return ps, nil
}

// ListByPresenter returns the presentations created by presenter.
func (u *Usecase) ListByPresenter(ctx context.Context, presenter string) ([]model.Presentation, error) {
	presenter = strings.TrimSpace(presenter)
	if presenter == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("presenter is required"))
	}
	ps, err := u.presentations.ListByPresenter(ctx, presenter)
	if err != nil {
		return nil, u.repoError(err)
	}
	return ps, nil
}

// Get returns the presentation with its slides and audience size.
func (u *Usecase) Get(ctx context.Context, id uuid.UUID) (model.Presentation, error) {
	p, err := u.presentations.LoadPresentation(ctx, id)
	if err != nil {
		return model.Presentation{}, u.repoError(err)
	}

	p.AudienceCount, err = u.audience.Count(ctx, id)
	if err != nil {
		return model.Presentation{}, u.repoError(err)
	}
	return p, nil
}

type UpdateInput struct {
	Title       string
	Description string
}

func (u *Usecase) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (model.Presentation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Presentation{}, errors.Join(ErrInvalidInput, errors.New("title is required"))
	}

	p, err := u.presentations.LoadPresentation(ctx, id)
	if err != nil {
		return model.Presentation{}, u.repoError(err)
	}
	p.Title = title
	p.Description = strings.TrimSpace(in.Description)
	p.UpdatedAt = u.now()

	if err := u.presentations.Update(ctx, p); err != nil {
		return model.Presentation{}, u.repoError(err)
	}
	return p, nil
}

// ToggleActive flips the active flag. A presentation coming back to life gets
// a new access code if its old one was taken meanwhile.
func (u *Usecase) ToggleActive(ctx context.Context, id uuid.UUID) (model.Presentation, error) {
	if err := u.store.Claim(ctx, id); err != nil {
		return model.Presentation{}, u.boardError(err)
	}

	p, err := u.presentations.LoadPresentation(ctx, id)
	if err != nil {
		return model.Presentation{}, u.repoError(err)
	}

	p.IsActive = !p.IsActive
	p.UpdatedAt = u.now()
	if p.IsActive {
		p.EndedAt = nil
	}

	err = u.presentations.Update(ctx, p)
	if err != nil && p.IsActive && errors.Is(err, model.ErrConflict) {
		err = u.withFreshCode(&p, func() error {
			return u.presentations.Update(ctx, p)
		})
	} else if err != nil {
		err = u.repoError(err)
	}
	if err != nil {
		return model.Presentation{}, err
	}

	if err := u.store.Update(ctx, id, func(b *usecase_aggregation.Board) error {
		b.SetActive(p.IsActive)
		return nil
	}); err != nil {
		return model.Presentation{}, u.boardError(err)
	}

	u.logger.Info("presentation toggled", "presentation", id, "active", p.IsActive)
	return p, nil
}

// End closes the presentation for the audience. Results stay available.
func (u *Usecase) End(ctx context.Context, id uuid.UUID) (model.Presentation, error) {
	if err := u.store.Claim(ctx, id); err != nil {
		return model.Presentation{}, u.boardError(err)
	}

	p, err := u.presentations.LoadPresentation(ctx, id)
	if err != nil {
		return model.Presentation{}, u.repoError(err)
	}

	now := u.now()
	p.IsActive = false
	p.EndedAt = &now
	p.UpdatedAt = now
	if err := u.presentations.Update(ctx, p); err != nil {
		return model.Presentation{}, u.repoError(err)
	}
	if err := u.audience.Clear(ctx, id); err != nil {
		return model.Presentation{}, u.repoError(err)
	}
	p.AudienceCount = 0

	var q model.ActiveQuestion
	if err := u.store.Update(ctx, id, func(b *usecase_aggregation.Board) error {
		b.SetActive(false)
		b.ClearLive()
		q = b.ActiveQuestion()
		return nil
	}); err != nil {
		return model.Presentation{}, u.boardError(err)
	}

	topic := model.ActiveQuestionTopic(id)
	u.publisher.Publish(topic, model.NewEvent(topic, model.EventActiveQuestion, q))
	u.publisher.Publish(topic, model.NewEvent(topic, model.EventPresentationEnded, p.ID))
	u.publishAudience(id, 0)

	u.logger.Info("presentation ended", "presentation", id)
	return p, nil
}

// Delete removes the presentation for good and revokes the presenter token.
func (u *Usecase) Delete(ctx context.Context, id uuid.UUID, token string) error {
	if err := u.store.Claim(ctx, id); err != nil {
		return u.boardError(err)
	}

	if err := u.presentations.Delete(ctx, id); err != nil {
		return u.repoError(err)
	}
	u.store.Discard(id)

	if token != "" {
		if err := u.tokens.Revoke(ctx, token); err != nil {
			u.logger.Warn("failed to revoke presenter token",
				"presentation", id,
				slog.String("error", err.Error()))
		}
	}

	topic := model.ActiveQuestionTopic(id)
	u.publisher.Publish(topic, model.NewEvent(topic, model.EventPresentationEnded, id))
	return nil
}

func (u *Usecase) boardError(err error) error {
	switch {
	case errors.Is(err, model.RejectUnknownPresentation):
		return ErrResourceNotFound
	case errors.Is(err, model.ErrNotOwner):
		return model.ErrNotOwner
	}
	return errors.Join(ErrInternal, err)
}
