package model

import (
	"strings"

	"github.com/google/uuid"
)

const topicRoot = "presentation/"

func SlideTopic(presentationID, slideID uuid.UUID) string {
	return topicRoot + presentationID.String() + "/slide/" + slideID.String()
}

func ActiveQuestionTopic(presentationID uuid.UUID) string {
	return topicRoot + presentationID.String() + "/active-question"
}

func AudienceTopic(presentationID uuid.UUID) string {
	return topicRoot + presentationID.String() + "/audience"
}

// ResultsTopic is the presentation-wide aggregate topic for a slide type:
// word clouds go to ".../wordcloud", everything else to ".../responses".
func ResultsTopic(presentationID uuid.UUID, t SlideType) string {
	if t == SlideTypeWordCloud {
		return topicRoot + presentationID.String() + "/wordcloud"
	}
	return topicRoot + presentationID.String() + "/responses"
}

// TopicPresentation extracts the presentation id a topic belongs to.
func TopicPresentation(topic string) (uuid.UUID, bool) {
	rest, ok := strings.CutPrefix(topic, topicRoot)
	if !ok {
		return uuid.Nil, false
	}
	raw, _, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
