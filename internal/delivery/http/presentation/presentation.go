package http_presentation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/pollcast/core/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_ingestion "github.com/humanbelnik/pollcast/core/internal/usecase/ingestion"
	usecase_presentation "github.com/humanbelnik/pollcast/core/internal/usecase/presentation"
)

type Controller struct {
	usecase   *usecase_presentation.Usecase
	results   *usecase_ingestion.Usecase
	auth      *http_auth_middleware.Middleware
	validator http_auth_middleware.TokenValidator

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	usecase *usecase_presentation.Usecase,
	results *usecase_ingestion.Usecase,
	validator http_auth_middleware.TokenValidator,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		usecase:   usecase,
		results:   results,
		validator: validator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = http_auth_middleware.New(validator, http_auth_middleware.WithLogger(c.logger))
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	presentations := router.Group("/presentations")
	presentations.GET("", c.list)
	presentations.GET("/active", c.listActive)
	presentations.GET("/presenter/:presenter_id", c.listByPresenter)
	presentations.POST("", c.create)
	presentations.POST("/join", c.join)

	presentation := presentations.Group("/:presentation_id")
	presentation.GET("", c.get)
	presentation.GET("/audience", c.audience)
	presentation.POST("/leave", c.leave)

	presenter := presentation.Group("", c.auth.PresenterRequired())
	presenter.PUT("", c.update)
	presenter.DELETE("", c.delete)
	presenter.POST("/toggle-active", c.toggleActive)
	presenter.POST("/end", c.end)
	presenter.POST("/slides", c.addSlide)
	presenter.PUT("/slides/:slide_id", c.updateSlide)
	presenter.PUT("/slides/:slide_id/order", c.moveSlide)
	presenter.DELETE("/slides/:slide_id", c.deleteSlide)
}

// fail writes the response for a usecase error.
func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	if status, resp, ok := http_common.NotOwner(err); ok {
		ctx.JSON(status, resp)
		return
	}

	switch {
	case errors.Is(err, usecase_presentation.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: err.Error()})
	case errors.Is(err, usecase_presentation.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
	case errors.Is(err, usecase_presentation.ErrCodeConflict):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "access code conflict"})
	case errors.Is(err, usecase_presentation.ErrCodesUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "unavailable"})
	default:
		c.logger.Error(msg, slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}

func presentationID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("presentation_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid presentation id"})
		return uuid.Nil, false
	}
	return id, true
}

// isPresenter reports whether the request carries a valid token for id.
// Public routes use it to decide how much to show.
func (c *Controller) isPresenter(ctx context.Context, token string, id uuid.UUID) bool {
	if token == "" {
		return false
	}
	return c.validator.Validate(ctx, token, id) == nil
}

// @Summary List presentations
// @Tags Presentations
// @Produce json
// @Success 200 {array} PresentationDTO
// @Failure 500 {object} http_common.ErrorResponse
// @Router /presentations [get]
func (c *Controller) list(ctx *gin.Context) {
	ps, err := c.usecase.List(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, "failed to list presentations", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTOs(ps))
}

// @Summary List active presentations
// @Tags Presentations
// @Produce json
// @Success 200 {array} PresentationDTO
// @Failure 500 {object} http_common.ErrorResponse
// @Router /presentations/active [get]
func (c *Controller) listActive(ctx *gin.Context) {
	ps, err := c.usecase.ListActive(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, "failed to list active presentations", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTOs(ps))
}

// @Summary List presentations of a presenter
// @Description Matches the createdBy given on creation.
// @Tags Presentations
// @Produce json
// @Param presenter_id path string true "Presenter"
// @Success 200 {array} PresentationDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /presentations/presenter/{presenter_id} [get]
func (c *Controller) listByPresenter(ctx *gin.Context) {
	ps, err := c.usecase.ListByPresenter(ctx.Request.Context(), ctx.Param("presenter_id"))
	if err != nil {
		c.fail(ctx, "failed to list presenter presentations", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTOs(ps))
}

func toPresentationDTOs(ps []model.Presentation) []PresentationDTO {
	dtos := make([]PresentationDTO, 0, len(ps))
	for _, p := range ps {
		dtos = append(dtos, toPresentationDTO(p, nil, false))
	}
	return dtos
}

type CreateRequestDTO struct {
	Title       string `json:"title" binding:"required" example:"Quarterly town hall"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy" example:"ada@example.com"`
}

// @Summary Create presentation
// @Description Creates an active presentation with a fresh access code.
// @Tags Presentations
// @Accept json
// @Produce json
// @Param request body CreateRequestDTO true "Presentation"
// @Success 201 {object} PresentationDTO
// @Header 201 {string} X-presenter-token "Presenter token"
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 503 {object} http_common.ErrorResponse "No free access code"
// @Router /presentations [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return
	}

	p, token, err := c.usecase.Create(ctx.Request.Context(), usecase_presentation.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		c.fail(ctx, "failed to create presentation", err)
		return
	}

	ctx.Header(http_common.PresenterTokenHeader, token)
	ctx.JSON(http.StatusCreated, toPresentationDTO(p, nil, true))
}

// @Summary Get presentation
// @Description Slides embed their current results. Quiz answers are shown to the presenter only.
// @Tags Presentations
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Success 200 {object} PresentationDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Router /presentations/{presentation_id} [get]
func (c *Controller) get(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	p, err := c.usecase.Get(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "failed to get presentation", err)
		return
	}

	snaps, err := c.results.AllResults(ctx.Request.Context(), id)
	if err != nil {
		c.logger.Error("failed to load results",
			"presentation", id,
			slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	results := make(map[uuid.UUID]model.Snapshot, len(snaps))
	for _, s := range snaps {
		results[s.SlideID] = s
	}

	presenter := c.isPresenter(ctx.Request.Context(), ctx.GetHeader(http_common.PresenterTokenHeader), id)
	ctx.JSON(http.StatusOK, toPresentationDTO(p, results, presenter))
}

type UpdateRequestDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// @Summary Update presentation
// @Tags Presentations
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param request body UpdateRequestDTO true "Title and description"
// @Success 200 {object} PresentationDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id} [put]
func (c *Controller) update(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	var req UpdateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return
	}

	p, err := c.usecase.Update(ctx.Request.Context(), id, usecase_presentation.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.fail(ctx, "failed to update presentation", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTO(p, nil, true))
}

// @Summary Delete presentation
// @Description Deletes the presentation and revokes the presenter token.
// @Tags Presentations
// @Param presentation_id path string true "Presentation ID"
// @Success 204
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id} [delete]
func (c *Controller) delete(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	if err := c.usecase.Delete(ctx.Request.Context(), id, ctx.GetString(http_auth_middleware.TokenKey)); err != nil {
		c.fail(ctx, "failed to delete presentation", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) toggleActive(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	p, err := c.usecase.ToggleActive(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "failed to toggle presentation", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTO(p, nil, true))
}

// @Summary End presentation
// @Description Deactivates the presentation, removes the audience and clears the live slide. Results are kept.
// @Tags Presentations
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Success 200 {object} PresentationDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id}/end [post]
func (c *Controller) end(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	p, err := c.usecase.End(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "failed to end presentation", err)
		return
	}
	ctx.JSON(http.StatusOK, toPresentationDTO(p, nil, true))
}
