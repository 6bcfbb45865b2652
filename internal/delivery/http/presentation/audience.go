package http_presentation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
)

type JoinRequestDTO struct {
	AccessCode string `json:"accessCode" binding:"required" example:"042917"`
	Name       string `json:"name" binding:"required" example:"Ada"`
}

// @Summary Join presentation
// @Description Joins the active presentation behind the access code.
// @Tags Audience
// @Accept json
// @Produce json
// @Param request body JoinRequestDTO true "Access code and display name"
// @Success 201 {object} MemberDTO
// @Header 201 {string} X-audience-token "Audience member id"
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse "No active presentation with this code"
// @Router /presentations/join [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request body"})
		return
	}

	member, err := c.usecase.Join(ctx.Request.Context(), req.AccessCode, req.Name)
	if err != nil {
		c.fail(ctx, "failed to join presentation", err)
		return
	}

	ctx.Header(http_common.AudienceTokenHeader, member.ID.String())
	ctx.JSON(http.StatusCreated, toMemberDTO(member))
}

func (c *Controller) leave(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	memberID, err := uuid.Parse(ctx.GetHeader(http_common.AudienceTokenHeader))
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
			Message: "no valid " + http_common.AudienceTokenHeader + " header",
		})
		return
	}

	if err := c.usecase.Leave(ctx.Request.Context(), id, memberID); err != nil {
		c.fail(ctx, "failed to leave presentation", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// @Summary List audience
// @Tags Audience
// @Produce json
// @Param presentation_id path string true "Presentation ID"
// @Success 200 {array} MemberDTO
// @Router /presentations/{presentation_id}/audience [get]
func (c *Controller) audience(ctx *gin.Context) {
	id, ok := presentationID(ctx)
	if !ok {
		return
	}

	members, err := c.usecase.Audience(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "failed to list audience", err)
		return
	}

	dtos := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, toMemberDTO(m))
	}
	ctx.JSON(http.StatusOK, dtos)
}
