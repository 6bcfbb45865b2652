package http_cursor

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/pollcast/core/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_cursor "github.com/humanbelnik/pollcast/core/internal/usecase/cursor"
)

type Controller struct {
	usecase *usecase_cursor.Usecase
	auth    *http_auth_middleware.Middleware
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	usecase *usecase_cursor.Usecase,
	validator http_auth_middleware.TokenValidator,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = http_auth_middleware.New(validator, http_auth_middleware.WithLogger(c.logger))
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	cursor := router.Group("/presentations/:presentation_id/active-slide")
	cursor.GET("", c.current)
	cursor.PUT("", c.auth.PresenterRequired(), c.activate)
	cursor.DELETE("", c.auth.PresenterRequired(), c.deactivate)
}

type ActivateRequestDTO struct {
	SlideID string `json:"slideId" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

func (c *Controller) reply(ctx *gin.Context, q model.ActiveQuestion, err error) {
	if err == nil {
		ctx.JSON(http.StatusOK, q)
		return
	}
	if reason, ok := http_common.AsReject(err); ok {
		ctx.JSON(http_common.RejectStatus(reason), http_common.RejectResponse(reason))
		return
	}
	if status, resp, ok := http_common.NotOwner(err); ok {
		ctx.JSON(status, resp)
		return
	}
	c.logger.Error("cursor operation failed", slog.String("error", err.Error()))
	ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
}

func presentationID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("presentation_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.RejectResponse(model.RejectUnknownPresentation))
		return uuid.Nil, false
	}
	return id, true
}

// @Summary Live slide
// @Description Current cursor state; slide is null when nothing is live.
// @Tags Cursor
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Success 200 {object} model.ActiveQuestion
// @Failure 404 {object} http_common.ErrorResponse
// @Router /presentations/{presentation_id}/active-slide [get]
func (c *Controller) current(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}
	q, err := c.usecase.Current(ctx.Request.Context(), id)
	c.reply(ctx, q, err)
}

// @Summary Make slide live
// @Tags Cursor
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param request body ActivateRequestDTO true "Slide to activate"
// @Success 200 {object} model.ActiveQuestion
// @Failure 404 {object} http_common.ErrorResponse "UNKNOWN_SLIDE"
// @Security PresenterToken
// @Router /presentations/{presentation_id}/active-slide [put]
func (c *Controller) activate(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	var req ActivateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return
	}
	slideID, err := uuid.Parse(req.SlideID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.RejectResponse(model.RejectUnknownSlide))
		return
	}

	q, err := c.usecase.Activate(ctx.Request.Context(), id, slideID)
	c.reply(ctx, q, err)
}

func (c *Controller) deactivate(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}
	q, err := c.usecase.Deactivate(ctx.Request.Context(), id)
	c.reply(ctx, q, err)
}
