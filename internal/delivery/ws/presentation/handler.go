package ws_presentation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
	"github.com/humanbelnik/pollcast/core/internal/model"
	usecase_ingestion "github.com/humanbelnik/pollcast/core/internal/usecase/ingestion"
)

// Inbound destinations.
const (
	DestinationResponse    = "response"
	DestinationWordCloud   = "wordcloud"
	DestinationActivate    = "activate"
	DestinationDeactivate  = "deactivate"
	DestinationSubscribe   = "subscribe"
	DestinationUnsubscribe = "unsubscribe"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Cursor interface {
	Current(ctx context.Context, presentationID uuid.UUID) (model.ActiveQuestion, error)
	Activate(ctx context.Context, presentationID, slideID uuid.UUID) (model.ActiveQuestion, error)
	Deactivate(ctx context.Context, presentationID uuid.UUID) (model.ActiveQuestion, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string, presentationID uuid.UUID) error
}

// Message is an inbound frame.
type Message struct {
	Destination string `json:"destination"`
	// Slide to respond to or activate; responses default to the live slide.
	QuestionID string `json:"questionId,omitempty"`
	http_common.SubmitPayload
	Topic string `json:"topic,omitempty"`
}

type Rejection struct {
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
	Message     string `json:"message"`
}

type Controller struct {
	hub        *Hub
	subscriber Subscriber
	ingestion  *usecase_ingestion.Usecase
	cursor     Cursor
	validator  TokenValidator
	readOnly   bool

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithReadOnly refuses submissions and cursor moves.
func WithReadOnly(readOnly bool) ControllerOption {
	return func(c *Controller) {
		c.readOnly = readOnly
	}
}

func New(
	hub *Hub,
	subscriber Subscriber,
	ingestion *usecase_ingestion.Usecase,
	cursor Cursor,
	validator TokenValidator,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		hub:        hub,
		subscriber: subscriber,
		ingestion:  ingestion,
		cursor:     cursor,
		validator:  validator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws/presentations/:presentation_id", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	presentationID, err := uuid.Parse(ctx.Param("presentation_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.RejectResponse(model.RejectUnknownPresentation))
		return
	}

	q, err := c.cursor.Current(ctx.Request.Context(), presentationID)
	if err != nil {
		if reason, ok := http_common.AsReject(err); ok {
			ctx.JSON(http_common.RejectStatus(reason), http_common.RejectResponse(reason))
			return
		}
		if status, resp, ok := http_common.NotOwner(err); ok {
			ctx.JSON(status, resp)
			return
		}
		c.logger.Error("failed to load presentation", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	presenter := false
	if token := ctx.Query("token"); token != "" {
		if err := c.validator.Validate(ctx.Request.Context(), token, presentationID); err != nil {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "invalid token"})
			return
		}
		presenter = true
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := newClient(conn, c.subscriber, presentationID, presenter)
	c.hub.RegisterClient(client)

	client.subscribe(model.ActiveQuestionTopic(presentationID))
	client.subscribe(model.AudienceTopic(presentationID))
	client.subscribe(model.ResultsTopic(presentationID, model.SlideTypePoll))
	client.subscribe(model.ResultsTopic(presentationID, model.SlideTypeWordCloud))

	// Read again now that transitions reach the client; Seq orders the two.
	if current, err := c.cursor.Current(ctx.Request.Context(), presentationID); err == nil {
		q = current
	}
	topic := model.ActiveQuestionTopic(presentationID)
	client.enqueue(model.NewEvent(topic, model.EventActiveQuestion, q))

	go client.writePump()
	go func() {
		defer c.hub.RemoveClient(client)
		client.readPump(c.handle)
	}()
}

func (c *Controller) handle(client *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		client.enqueue(model.NewEvent("", model.EventError, "malformed frame"))
		return
	}

	// Each request runs under its own context; the connection has none.
	ctx := context.Background()

	switch msg.Destination {
	case DestinationResponse, DestinationWordCloud:
		if c.readOnly {
			client.enqueue(model.NewEvent("", model.EventError, "read-only instance"))
			return
		}
		c.submit(ctx, client, msg)
	case DestinationActivate, DestinationDeactivate:
		if c.readOnly {
			client.enqueue(model.NewEvent("", model.EventError, "read-only instance"))
			return
		}
		if !client.presenter {
			client.enqueue(model.NewEvent("", model.EventError, "presenter token required"))
			return
		}
		c.move(ctx, client, msg)
	case DestinationSubscribe, DestinationUnsubscribe:
		id, ok := model.TopicPresentation(msg.Topic)
		if !ok || id != client.presentationID {
			client.enqueue(model.NewEvent(msg.Topic, model.EventError, "topic outside of presentation"))
			return
		}
		if msg.Destination == DestinationSubscribe {
			client.subscribe(msg.Topic)
		} else {
			client.unsubscribe(msg.Topic)
		}
	default:
		client.enqueue(model.NewEvent("", model.EventError, "unknown destination "+msg.Destination))
	}
}

func (c *Controller) reject(client *Client, destination string, err error) {
	if _, resp, ok := http_common.NotOwner(err); ok {
		client.enqueue(model.NewEvent("", model.EventRejected, Rejection{
			Destination: destination,
			Reason:      resp.Reason,
			Message:     resp.Message,
		}))
		return
	}

	reason, ok := http_common.AsReject(err)
	if !ok {
		c.logger.Error("websocket request failed",
			"presentation", client.presentationID,
			"destination", destination,
			slog.String("error", err.Error()))
		client.enqueue(model.NewEvent("", model.EventError, "internal error"))
		return
	}
	client.enqueue(model.NewEvent("", model.EventRejected, Rejection{
		Destination: destination,
		Reason:      string(reason),
		Message:     reason.Error(),
	}))
}

// slideID resolves questionId, falling back to the live slide.
func (c *Controller) slideID(ctx context.Context, client *Client, questionID string) (uuid.UUID, error) {
	if questionID != "" {
		id, err := uuid.Parse(questionID)
		if err != nil {
			return uuid.Nil, model.RejectUnknownSlide
		}
		return id, nil
	}

	q, err := c.cursor.Current(ctx, client.presentationID)
	if err != nil {
		return uuid.Nil, err
	}
	if q.SlideID == nil {
		return uuid.Nil, model.RejectSlideNotLive
	}
	return *q.SlideID, nil
}

func (c *Controller) submit(ctx context.Context, client *Client, msg Message) {
	slideID, err := c.slideID(ctx, client, msg.QuestionID)
	if err != nil {
		c.reject(client, msg.Destination, err)
		return
	}

	payload, err := msg.Payload()
	if err != nil {
		c.reject(client, msg.Destination, model.RejectMalformedPayload)
		return
	}

	ack, err := c.ingestion.Submit(ctx, model.Submission{
		PresentationID: client.presentationID,
		SlideID:        slideID,
		Payload:        payload,
	})
	if err != nil {
		c.reject(client, msg.Destination, err)
		return
	}
	client.enqueue(model.NewEvent(model.SlideTopic(client.presentationID, slideID), model.EventAck, ack))
}

func (c *Controller) move(ctx context.Context, client *Client, msg Message) {
	var err error
	if msg.Destination == DestinationDeactivate {
		_, err = c.cursor.Deactivate(ctx, client.presentationID)
	} else {
		var slideID uuid.UUID
		if slideID, err = uuid.Parse(msg.QuestionID); err != nil {
			err = model.RejectUnknownSlide
		} else {
			_, err = c.cursor.Activate(ctx, client.presentationID, slideID)
		}
	}
	if err != nil {
		c.reject(client, msg.Destination, err)
	}
}
