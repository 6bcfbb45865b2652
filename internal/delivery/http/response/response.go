package http_response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_ingestion "github.com/humanbelnik/pollcast/core/internal/usecase/ingestion"
)

type Controller struct {
	usecase *usecase_ingestion.Usecase
	logger  *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	usecase *usecase_ingestion.Usecase,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		usecase: usecase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	presentation := router.Group("/presentations/:presentation_id")
	presentation.GET("/results", c.allResults)
	presentation.POST("/slides/:slide_id/responses", c.submit)
	presentation.GET("/slides/:slide_id/results", c.results)
}

// SubmitRequestDTO carries one response: {optionId}, {optionIds}, {word} or {text}.
type SubmitRequestDTO = http_common.SubmitPayload

func slideIDs(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ids, err := http_common.ParseIDs(ctx.Param("presentation_id"), ctx.Param("slide_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.RejectResponse(model.RejectUnknownSlide))
		return uuid.Nil, uuid.Nil, false
	}
	return ids[0], ids[1], true
}

func (c *Controller) fail(ctx *gin.Context, msg string, err error) {
	if reason, ok := http_common.AsReject(err); ok {
		ctx.JSON(http_common.RejectStatus(reason), http_common.RejectResponse(reason))
		return
	}
	if status, resp, ok := http_common.NotOwner(err); ok {
		ctx.JSON(status, resp)
		return
	}
	c.logger.Error(msg, slog.String("error", err.Error()))
	ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
}

// @Summary Submit response
// @Description Accepted only while the presentation is active and the slide is live.
// @Tags Responses
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param slide_id path string true "Slide ID"
// @Param X-audience-token header string false "Audience member id"
// @Param request body SubmitRequestDTO true "One of optionId, optionIds, word, text"
// @Success 201 {object} model.Ack
// @Failure 404 {object} http_common.ErrorResponse "UNKNOWN_PRESENTATION, UNKNOWN_SLIDE"
// @Failure 409 {object} http_common.ErrorResponse "PRESENTATION_INACTIVE, SLIDE_NOT_LIVE"
// @Failure 422 {object} http_common.ErrorResponse "MALFORMED_PAYLOAD"
// @Router /presentations/{presentation_id}/slides/{slide_id}/responses [post]
func (c *Controller) submit(ctx *gin.Context) {
	presentationID, slideID, ok := slideIDs(ctx)
	if !ok {
		return
	}

	var req SubmitRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, http_common.RejectResponse(model.RejectMalformedPayload))
		return
	}
	payload, err := req.Payload()
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, http_common.ErrorResponse{
			Message: err.Error(),
			Reason:  string(model.RejectMalformedPayload),
		})
		return
	}

	// Anonymous submissions are allowed; a malformed member id is not.
	var memberID uuid.UUID
	if raw := ctx.GetHeader(http_common.AudienceTokenHeader); raw != "" {
		if memberID, err = uuid.Parse(raw); err != nil {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "invalid " + http_common.AudienceTokenHeader + " header",
			})
			return
		}
	}

	ack, err := c.usecase.Submit(ctx.Request.Context(), model.Submission{
		PresentationID: presentationID,
		SlideID:        slideID,
		MemberID:       memberID,
		Payload:        payload,
	})
	if err != nil {
		c.fail(ctx, "failed to submit response", err)
		return
	}
	ctx.JSON(http.StatusCreated, ack)
}

// @Summary Slide results
// @Tags Responses
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param slide_id path string true "Slide ID"
// @Success 200 {object} model.Snapshot
// @Failure 404 {object} http_common.ErrorResponse
// @Router /presentations/{presentation_id}/slides/{slide_id}/results [get]
func (c *Controller) results(ctx *gin.Context) {
	presentationID, slideID, ok := slideIDs(ctx)
	if !ok {
		return
	}

	snap, err := c.usecase.Results(ctx.Request.Context(), presentationID, slideID)
	if err != nil {
		c.fail(ctx, "failed to get results", err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (c *Controller) allResults(ctx *gin.Context) {
	presentationID, err := uuid.Parse(ctx.Param("presentation_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.RejectResponse(model.RejectUnknownPresentation))
		return
	}

	snaps, err := c.usecase.AllResults(ctx.Request.Context(), presentationID)
	if err != nil {
		c.fail(ctx, "failed to get results", err)
		return
	}
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	ctx.JSON(http.StatusOK, snaps)
}
