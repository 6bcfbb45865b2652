package http_common

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

const (
	PresenterTokenHeader = "X-presenter-token"
	AudienceTokenHeader  = "X-audience-token"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// RejectStatus maps a submission or cursor rejection to its HTTP status.
func RejectStatus(reason model.RejectReason) int {
	switch reason {
	case model.RejectUnknownPresentation, model.RejectUnknownSlide:
		return http.StatusNotFound
	case model.RejectPresentationInactive, model.RejectSlideNotLive:
		return http.StatusConflict
	case model.RejectMalformedPayload:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// AsReject reports whether err carries a rejection reason.
func AsReject(err error) (model.RejectReason, bool) {
	var reason model.RejectReason
	if errors.As(err, &reason) {
		return reason, true
	}
	return "", false
}

// ReasonNotOwner tells the client to retry through the router, which knows
// the instance serving the presentation.
const ReasonNotOwner = "NOT_OWNER"

// NotOwner reports whether err should be answered with 421 Misdirected Request.
func NotOwner(err error) (int, ErrorResponse, bool) {
	if !errors.Is(err, model.ErrNotOwner) {
		return 0, ErrorResponse{}, false
	}
	return http.StatusMisdirectedRequest, ErrorResponse{
		Message: model.ErrNotOwner.Error(),
		Reason:  ReasonNotOwner,
	}, true
}

func RejectResponse(reason model.RejectReason) ErrorResponse {
	return ErrorResponse{
		Message: reason.Error(),
		Reason:  string(reason),
	}
}

// ParseIDs parses path parameters holding uuids, in order.
func ParseIDs(raw ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
