package service_presenter_auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const DefaultTTL = 12 * time.Hour

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidToken = errors.New("invalid presenter token")
	ErrForeignToken = errors.New("token belongs to another presentation")
)

//go:generate mockery --name=SessionCache --output=./mocks --filename=session.go
type SessionCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
}

// Service issues presenter tokens: HS256 JWTs whose subject is the
// presentation id. With a session cache a token is only valid while its
// session exists, which makes tokens revocable.
type Service struct {
	secret       []byte
	ttl          time.Duration
	sessionCache SessionCache
	now          func() time.Time
}

type Option func(*Service)

func WithSessionCache(cache SessionCache) Option {
	return func(s *Service) {
		s.sessionCache = cache
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(secret string, opts ...Option) *Service {
	s := &Service{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Issue(ctx context.Context, presentationID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   presentationID.String(),
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Join(ErrInternal, err)
	}

	if s.sessionCache != nil {
		if err := s.sessionCache.Set(claims.ID, claims.Subject, s.ttl); err != nil {
			return "", errors.Join(ErrInternal, err)
		}
	}
	return token, nil
}

// Validate checks that token is a live presenter token for presentationID.
func (s *Service) Validate(ctx context.Context, token string, presentationID uuid.UUID) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if claims.Subject != presentationID.String() {
		return ErrForeignToken
	}

	if s.sessionCache != nil {
		owner, err := s.sessionCache.Get(claims.ID)
		if err != nil {
			return errors.Join(ErrInternal, err)
		}
		if owner != claims.Subject {
			return fmt.Errorf("%w: session is gone", ErrInvalidToken)
		}
	}
	return nil
}

// Revoke ends the token's session. Without a session cache tokens live until
// they expire.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if s.sessionCache == nil {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.sessionCache.Del(claims.ID); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (s *Service) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
