package http_presentation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_presentation "github.com/humanbelnik/pollcast/core/internal/usecase/presentation"
)

type OptionRequestDTO struct {
	// Empty for a new option
	ID        string `json:"id,omitempty"`
	Text      string `json:"text" example:"Yes"`
	IsCorrect bool   `json:"isCorrect"`
}

type SlideRequestDTO struct {
	Type          model.SlideType    `json:"type" binding:"required" example:"POLL" enums:"POLL,QUIZ,WORDCLOUD,FREEFORM"`
	Title         string             `json:"title"`
	Prompt        string             `json:"prompt" example:"Ready to start?"`
	Options       []OptionRequestDTO `json:"options"`
	AllowMultiple bool               `json:"allowMultiple"`
	Order         *int               `json:"order,omitempty"`
}

func (req SlideRequestDTO) toInput() (usecase_presentation.SlideInput, error) {
	in := usecase_presentation.SlideInput{
		Type:          req.Type,
		Title:         req.Title,
		Prompt:        req.Prompt,
		AllowMultiple: req.AllowMultiple,
		Order:         req.Order,
	}
	for _, o := range req.Options {
		var id uuid.UUID
		if o.ID != "" {
			var err error
			if id, err = uuid.Parse(o.ID); err != nil {
				return usecase_presentation.SlideInput{}, err
			}
		}
		in.Options = append(in.Options, usecase_presentation.OptionInput{
			ID:        id,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}
	return in, nil
}

func bindSlide(ctx *gin.Context) (usecase_presentation.SlideInput, bool) {
	var req SlideRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return usecase_presentation.SlideInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid option id"})
		return usecase_presentation.SlideInput{}, false
	}
	return in, true
}

func slideIDs(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ids, err := http_common.ParseIDs(ctx.Param("presentation_id"), ctx.Param("slide_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid id"})
		return uuid.Nil, uuid.Nil, false
	}
	return ids[0], ids[1], true
}

// @Summary Add slide
// @Description Inserts the slide at order, or appends it. Following slides shift.
// @Tags Slides
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param request body SlideRequestDTO true "Slide"
// @Success 201 {object} SlideDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id}/slides [post]
func (c *Controller) addSlide(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}
	in, ok := bindSlide(ctx)
	if !ok {
		return
	}

	slide, err := c.usecase.AddSlide(ctx.Request.Context(), id, in)
	if err != nil {
		c.fail(ctx, "failed to add slide", err)
		return
	}
	ctx.JSON(http.StatusCreated, toSlideDTO(slide, true))
}

// @Summary Update slide
// @Description Replaces title, prompt and options. A changed order moves the slide. The type cannot change.
// @Tags Slides
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param slide_id path string true "Slide ID"
// @Param request body SlideRequestDTO true "Slide"
// @Success 200 {object} SlideDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id}/slides/{slide_id} [put]
func (c *Controller) updateSlide(ctx *gin.Context) {
	presentationID, slideID, ok := slideIDs(ctx)
	if !ok {
		return
	}
	in, ok := bindSlide(ctx)
	if !ok {
		return
	}

	slide, err := c.usecase.UpdateSlide(ctx.Request.Context(), presentationID, slideID, in)
	if err != nil {
		c.fail(ctx, "failed to update slide", err)
		return
	}
	ctx.JSON(http.StatusOK, toSlideDTO(slide, true))
}

type MoveRequestDTO struct {
	Order *int `json:"order" binding:"required" example:"0"`
}

// @Summary Move slide
// @Tags Slides
// @Accept json
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Param slide_id path string true "Slide ID"
// @Param request body MoveRequestDTO true "Target position"
// @Success 200 {object} SlideDTO
// @Failure 400 {object} http_common.ErrorResponse "Order out of range"
// @Failure 404 {object} http_common.ErrorResponse
// @Security PresenterToken
// @Router /presentations/{presentation_id}/slides/{slide_id}/order [put]
func (c *Controller) moveSlide(ctx *gin.Context) {
	presentationID, slideID, ok := slideIDs(ctx)
	if !ok {
		return
	}
	var req MoveRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return
	}

	slide, err := c.usecase.MoveSlide(ctx.Request.Context(), presentationID, slideID, *req.Order)
	if err != nil {
		c.fail(ctx, "failed to move slide", err)
		return
	}
	ctx.JSON(http.StatusOK, toSlideDTO(slide, true))
}

func (c *Controller) deleteSlide(ctx *gin.Context) {
	presentationID, slideID, ok := slideIDs(ctx)
	if !ok {
		return
	}

	if err := c.usecase.DeleteSlide(ctx.Request.Context(), presentationID, slideID); err != nil {
		c.fail(ctx, "failed to delete slide", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
