package http_auth_middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	service_presenter_auth "github.com/humanbelnik/pollcast/core/internal/service/presenter_auth"
)

// TokenKey holds the validated presenter token in the gin context.
const TokenKey = "presenter_token"

type TokenValidator interface {
	Validate(ctx context.Context, token string, presentationID uuid.UUID) error
}

type Middleware struct {
	validator TokenValidator
	logger    *slog.Logger
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

func New(
	validator TokenValidator,
	opts ...Option,
) *Middleware {
	m := &Middleware{
		validator: validator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PresenterRequired lets a request through only with a presenter token issued
// for the :presentation_id of the route.
func (m *Middleware) PresenterRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t := ctx.GetHeader(http_common.PresenterTokenHeader)
		if t == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "no " + http_common.PresenterTokenHeader + " header",
			})
			return
		}

		presentationID, err := uuid.Parse(ctx.Param("presentation_id"))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "invalid presentation id",
			})
			return
		}

		err = m.validator.Validate(ctx.Request.Context(), t, presentationID)
		switch {
		case err == nil:
			ctx.Set(TokenKey, t)
			ctx.Next()
		case errors.Is(err, service_presenter_auth.ErrForeignToken):
			ctx.AbortWithStatusJSON(http.StatusForbidden, http_common.ErrorResponse{
				Message: "token belongs to another presentation",
			})
		case errors.Is(err, service_presenter_auth.ErrInvalidToken):
			m.logger.Info("rejected presenter token",
				"presentation", presentationID,
				slog.String("error", err.Error()))
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "invalid token",
			})
		default:
			m.logger.Error("failed to validate presenter token", slog.String("error", err.Error()))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
		}
	}
}
