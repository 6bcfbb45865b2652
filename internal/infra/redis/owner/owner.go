package infra_redis_owner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

const (
	DefaultPrefix = "pollcast:owner"
	DefaultTTL    = 30 * time.Second
)

// Both scripts only touch a key still holding this instance's id.
const (
	renewScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`
	releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`
)

type Client interface {
	SetNX(key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(script string, keys []string, args ...interface{}) *redis.Cmd
}

// Lease makes one instance the owner of a presentation. The owner is recorded
// under "<prefix>:<presentation id>" with a ttl; Run keeps held keys alive.
type Lease struct {
	client   Client
	prefix   string
	instance string
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu sync.Mutex
	// Until when a claim is answered without asking Redis.
	held map[uuid.UUID]time.Time
}

type Option func(*Lease)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lease) {
		l.logger = logger
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Lease) {
		l.prefix = prefix
	}
}

// WithInstance names this instance. Defaults to a random id.
func WithInstance(instance string) Option {
	return func(l *Lease) {
		l.instance = instance
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(l *Lease) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Lease) {
		l.now = now
	}
}

func New(client Client, opts ...Option) *Lease {
	l := &Lease{
		client:   client,
		prefix:   DefaultPrefix,
		instance: uuid.NewString(),
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   slog.Default(),
		held:     make(map[uuid.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lease) Instance() string {
	return l.instance
}

// Claim takes or keeps the presentation. It fails with model.ErrNotOwner while
// another instance holds it. fresh is true unless this instance held it
// without interruption.
func (l *Lease) Claim(_ context.Context, presentationID uuid.UUID) (bool, error) {
	now := l.now()

	l.mu.Lock()
	until, held := l.held[presentationID]
	l.mu.Unlock()
	if held && now.Before(until) {
		return false, nil
	}

	renewed, err := l.renew(presentationID)
	if err != nil {
		return false, err
	}
	if renewed {
		l.hold(presentationID, now)
		return !held, nil
	}

	acquired, err := l.client.SetNX(l.key(presentationID), l.instance, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim presentation %s: %w", presentationID, err)
	}
	if !acquired {
		l.drop(presentationID)
		return false, model.ErrNotOwner
	}

	l.hold(presentationID, now)
	l.logger.Info("presentation claimed",
		"presentation", presentationID,
		"instance", l.instance)
	return true, nil
}

// Release is a no-op when another instance holds the presentation.
func (l *Lease) Release(_ context.Context, presentationID uuid.UUID) error {
	l.drop(presentationID)
	if err := l.client.Eval(releaseScript, []string{l.key(presentationID)}, l.instance).Err(); err != nil {
		return fmt.Errorf("release presentation %s: %w", presentationID, err)
	}
	return nil
}

// Run renews held presentations every third of the ttl until ctx is done.
func (l *Lease) Run(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.refresh()
		}
	}
}

// Close releases every held presentation.
func (l *Lease) Close() error {
	var errs []error
	for _, id := range l.holding() {
		errs = append(errs, l.Release(context.Background(), id))
	}
	return errors.Join(errs...)
}

func (l *Lease) refresh() {
	for _, id := range l.holding() {
		now := l.now()
		renewed, err := l.renew(id)
		switch {
		case err != nil:
			l.logger.Warn("failed to renew presentation",
				"presentation", id,
				slog.String("error", err.Error()))
		case renewed:
			l.hold(id, now)
		default:
			l.drop(id)
			l.logger.Warn("presentation lost to another instance", "presentation", id)
		}
	}
}

func (l *Lease) renew(presentationID uuid.UUID) (bool, error) {
	n, err := l.client.Eval(renewScript, []string{l.key(presentationID)}, l.instance, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("renew presentation %s: %w", presentationID, err)
	}
	return n == 1, nil
}

func (l *Lease) holding() []uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(l.held))
	for id := range l.held {
		ids = append(ids, id)
	}
	return ids
}

// hold trusts the key for a third of the ttl after a successful write at now.
func (l *Lease) hold(presentationID uuid.UUID, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held[presentationID] = now.Add(l.ttl / 3)
}

func (l *Lease) drop(presentationID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, presentationID)
}

func (l *Lease) key(presentationID uuid.UUID) string {
	return l.prefix + ":" + presentationID.String()
}
