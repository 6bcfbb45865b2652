package http_auth_middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	service_presenter_auth "github.com/humanbelnik/pollcast/core/internal/service/presenter_auth"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type validatorFunc func(ctx context.Context, token string, presentationID uuid.UUID) error

func (f validatorFunc) Validate(ctx context.Context, token string, presentationID uuid.UUID) error {
	return f(ctx, token, presentationID)
}

type AuthMiddlewareSuite struct {
	suite.Suite
}

func newRouter(validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := New(validator, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	r := gin.New()
	r.POST("/presentations/:presentation_id", m.PresenterRequired(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(TokenKey))
	})
	return r
}

func (s *AuthMiddlewareSuite) TestPresenterRequired(t provider.T) {
	presentationID := uuid.New()

	testCases := []struct {
		name           string
		path           string
		token          string
		validateErr    error
		expectedStatus int
	}{
		{
			name:           "Should pass a valid token through",
			path:           "/presentations/" + presentationID.String(),
			token:          "good",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Should reject a missing header",
			path:           "/presentations/" + presentationID.String(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Should reject a malformed presentation id",
			path:           "/presentations/abc",
			token:          "good",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Should reject an invalid token",
			path:           "/presentations/" + presentationID.String(),
			token:          "bad",
			validateErr:    service_presenter_auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Should forbid a token of another presentation",
			path:           "/presentations/" + presentationID.String(),
			token:          "foreign",
			validateErr:    service_presenter_auth.ErrForeignToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Should fail on validator error",
			path:           "/presentations/" + presentationID.String(),
			token:          "good",
			validateErr:    errors.New("redis down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			var seen uuid.UUID
			r := newRouter(validatorFunc(func(_ context.Context, token string, id uuid.UUID) error {
				seen = id
				return tc.validateErr
			}))

			req := httptest.NewRequest(http.MethodPost, tc.path, nil)
			if tc.token != "" {
				req.Header.Set(http_common.PresenterTokenHeader, tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, presentationID, seen)
				assert.Equal(t, tc.token, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.RunSuite(t, new(AuthMiddlewareSuite))
}
