package model

// RejectReason explains why a submission or a cursor move was refused.
// Values are comparable with errors.Is.
type RejectReason string

const (
	RejectPresentationInactive RejectReason = "PRESENTATION_INACTIVE"
	RejectSlideNotLive         RejectReason = "SLIDE_NOT_LIVE"
	RejectMalformedPayload     RejectReason = "MALFORMED_PAYLOAD"
	RejectUnknownSlide         RejectReason = "UNKNOWN_SLIDE"
	RejectUnknownPresentation  RejectReason = "UNKNOWN_PRESENTATION"
)

func (r RejectReason) Error() string {
	switch r {
	case RejectPresentationInactive:
		return "presentation is not active"
	case RejectSlideNotLive:
		return "slide is not live"
	case RejectMalformedPayload:
		return "malformed payload"
	case RejectUnknownSlide:
		return "unknown slide"
	case RejectUnknownPresentation:
		return "unknown presentation"
	}
	return string(r)
}
