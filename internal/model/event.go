package model

import "time"

type EventType string

const (
	EventSlideResults      EventType = "SLIDE_RESULTS"
	EventActiveQuestion    EventType = "ACTIVE_QUESTION"
	EventAudienceUpdate    EventType = "AUDIENCE_UPDATE"
	EventPresentationEnded EventType = "PRESENTATION_ENDED"

	// Sent to a single websocket client only
	EventAck      EventType = "ACK"
	EventRejected EventType = "REJECTED"
	EventError    EventType = "ERROR"
)

type Event struct {
	Topic   string    `json:"topic"`
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

func NewEvent(topic string, t EventType, payload any) Event {
	return Event{
		Topic:   topic,
		Type:    t,
		Payload: payload,
		At:      time.Now().UTC(),
	}
}

type AudienceUpdate struct {
	PresentationID string `json:"presentationId"`
	Count          int    `json:"count"`
}
