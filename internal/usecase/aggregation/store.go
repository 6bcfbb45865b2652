package usecase_aggregation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

var (
	ErrInternal             = errors.New("internal error")
	ErrUnsupportedSlideType = errors.New("unsupported slide type")
	ErrSlideTypeChanged     = errors.New("slide type cannot change")
)

//go:generate mockery --name=PresentationSource --output=./mocks/source --filename=presentation.go
type PresentationSource interface {
	LoadPresentation(ctx context.Context, id uuid.UUID) (model.Presentation, error)
}

//go:generate mockery --name=ResponseSource --output=./mocks/source --filename=response.go
type ResponseSource interface {
	LoadResponses(ctx context.Context, presentationID uuid.UUID) ([]model.Response, error)
}

// Ownership decides which instance serves a presentation when several share
// the same storage.
type Ownership interface {
	// Claim fails with model.ErrNotOwner while another instance holds the
	// presentation. fresh is true when this instance has just taken it over.
	Claim(ctx context.Context, presentationID uuid.UUID) (fresh bool, err error)
	Release(ctx context.Context, presentationID uuid.UUID) error
}

type Limits struct {
	MaxWordLength int
	MaxTextLength int
}

// Store keeps one Board per presentation. Boards are loaded lazily from the
// sources and live until discarded.
type Store struct {
	presentations PresentationSource
	responses     ResponseSource
	limits        Limits
	owner         Ownership
	logger        *slog.Logger

	mu     sync.RWMutex
	boards map[uuid.UUID]*board
	// Deleted presentations; stops a late load from resurrecting them.
	tombstones map[uuid.UUID]struct{}
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithLimits(limits Limits) Option {
	return func(s *Store) {
		if limits.MaxWordLength > 0 {
			s.limits.MaxWordLength = limits.MaxWordLength
		}
		if limits.MaxTextLength > 0 {
			s.limits.MaxTextLength = limits.MaxTextLength
		}
	}
}

// WithOwnership makes the store serve only presentations it holds.
func WithOwnership(owner Ownership) Option {
	return func(s *Store) {
		s.owner = owner
	}
}

func New(
	presentations PresentationSource,
	responses ResponseSource,
	opts ...Option,
) *Store {
	s := &Store{
		presentations: presentations,
		responses:     responses,
		limits: Limits{
			MaxWordLength: DefaultMaxWordLength,
			MaxTextLength: DefaultMaxTextLength,
		},
		logger:     slog.Default(),
		boards:     make(map[uuid.UUID]*board),
		tombstones: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update runs fn with exclusive access to the presentation's board.
// The board must not be retained after fn returns. fn must not block on I/O.
func (s *Store) Update(ctx context.Context, presentationID uuid.UUID, fn func(b *Board) error) error {
	b, err := s.board(ctx, presentationID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.discarded {
		return model.RejectUnknownPresentation
	}
	return fn(&Board{b: b, limits: s.limits})
}

// View is Update for callers that only read.
func (s *Store) View(ctx context.Context, presentationID uuid.UUID, fn func(b *Board) error) error {
	return s.Update(ctx, presentationID, fn)
}

func (s *Store) Loaded(presentationID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.boards[presentationID]
	return ok
}

// Claim makes sure this instance serves the presentation. A board kept from
// an earlier tenure is dropped and reloaded, since another instance may have
// changed the presentation meanwhile.
func (s *Store) Claim(ctx context.Context, presentationID uuid.UUID) error {
	if s.owner == nil {
		return nil
	}

	fresh, err := s.owner.Claim(ctx, presentationID)
	switch {
	case errors.Is(err, model.ErrNotOwner):
		s.evict(presentationID)
		return model.ErrNotOwner
	case err != nil:
		return errors.Join(ErrInternal, err)
	case fresh:
		s.evict(presentationID)
	}
	return nil
}

// Discard forgets the presentation for good.
func (s *Store) Discard(presentationID uuid.UUID) {
	s.mu.Lock()
	b := s.boards[presentationID]
	delete(s.boards, presentationID)
	s.tombstones[presentationID] = struct{}{}
	s.mu.Unlock()

	if b != nil {
		b.mu.Lock()
		b.discarded = true
		b.mu.Unlock()
	}

	if s.owner != nil {
		if err := s.owner.Release(context.Background(), presentationID); err != nil {
			s.logger.Warn("failed to release presentation",
				"presentation", presentationID,
				slog.String("error", err.Error()))
		}
	}
}

func (s *Store) evict(presentationID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[presentationID]; ok {
		delete(s.boards, presentationID)
		s.logger.Info("board evicted", "presentation", presentationID)
	}
}

func (s *Store) board(ctx context.Context, presentationID uuid.UUID) (*board, error) {
	s.mu.RLock()
	_, deleted := s.tombstones[presentationID]
	s.mu.RUnlock()
	if deleted {
		return nil, model.RejectUnknownPresentation
	}

	if err := s.Claim(ctx, presentationID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	b, ok := s.boards[presentationID]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	loaded, err := s.load(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, deleted := s.tombstones[presentationID]; deleted {
		return nil, model.RejectUnknownPresentation
	}
	// Somebody else may have loaded it meanwhile
	if existing, ok := s.boards[presentationID]; ok {
		return existing, nil
	}
	s.boards[presentationID] = loaded
	return loaded, nil
}

func (s *Store) load(ctx context.Context, presentationID uuid.UUID) (*board, error) {
	p, err := s.presentations.LoadPresentation(ctx, presentationID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.RejectUnknownPresentation
		}
		return nil, errors.Join(ErrInternal, err)
	}

	var responses []model.Response
	if s.responses != nil {
		responses, err = s.responses.LoadResponses(ctx, presentationID)
		if err != nil {
			return nil, errors.Join(ErrInternal, err)
		}
	}

	b := &board{
		id:     p.ID,
		active: p.IsActive,
		slots:  make(map[uuid.UUID]*slot, len(p.Slides)),
	}
	for _, slide := range p.Slides {
		if err := b.track(slide, s.limits); err != nil {
			s.logger.Warn("skipping slide",
				"presentation", presentationID,
				"slide", slide.ID,
				"error", err)
		}
	}
	for _, r := range responses {
		if _, err := b.record(r); err != nil {
			s.logger.Warn("skipping stored response",
				"presentation", presentationID,
				"response", r.ID,
				"error", err)
		}
	}

	s.logger.Debug("board loaded",
		"presentation", presentationID,
		"slides", len(b.slots),
		"responses", len(responses))
	return b, nil
}
