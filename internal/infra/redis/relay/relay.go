package infra_redis_relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/pollcast/core/internal/model"
)

const DefaultChannelPrefix = "pollcast:"

type LocalPublisher interface {
	Publish(topic string, event model.Event)
}

// Relay shares events between instances through Redis pub/sub. Publish sends
// to Redis only; Run feeds everything coming back from Redis, own events
// included, into the local hub.
type Relay struct {
	client *redis.Client
	local  LocalPublisher
	prefix string
	logger *slog.Logger
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithChannelPrefix(prefix string) Option {
	return func(r *Relay) {
		r.prefix = prefix
	}
}

func New(
	client *redis.Client,
	local LocalPublisher,
	opts ...Option,
) *Relay {
	r := &Relay{
		client: client,
		local:  local,
		prefix: DefaultChannelPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish never fails: when Redis is unreachable the event is delivered to
// local subscribers only.
func (r *Relay) Publish(topic string, event model.Event) {
	if event.Topic == "" {
		event.Topic = topic
	}

	data, err := json.Marshal(event)
	if err == nil {
		err = r.client.Publish(r.prefix+topic, data).Err()
	}
	if err != nil {
		r.logger.Warn("relay publish failed, delivering locally",
			"topic", topic,
			slog.String("error", err.Error()))
		r.local.Publish(topic, event)
	}
}

// Run blocks until ctx is done or the subscription breaks.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(r.prefix + "presentation/*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(); err != nil {
		return fmt.Errorf("relay subscribe: %w", err)
	}
	r.logger.Info("relay subscribed", "pattern", r.prefix+"presentation/*")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("relay subscription closed")
			}
			topic, event, err := decode(r.prefix, msg.Channel, msg.Payload)
			if err != nil {
				r.logger.Warn("dropping relayed message",
					"channel", msg.Channel,
					slog.String("error", err.Error()))
				continue
			}
			r.local.Publish(topic, event)
		}
	}
}

type wireEvent struct {
	Topic   string          `json:"topic"`
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// decode keeps the payload as raw JSON; relayed events are only re-encoded.
func decode(prefix, channel, payload string) (string, model.Event, error) {
	topic, ok := strings.CutPrefix(channel, prefix)
	if !ok {
		return "", model.Event{}, fmt.Errorf("channel outside prefix %q", prefix)
	}

	var w wireEvent
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return "", model.Event{}, err
	}
	if w.Type == "" {
		return "", model.Event{}, errors.New("event without type")
	}

	return topic, model.Event{
		Topic:   topic,
		Type:    w.Type,
		Payload: w.Payload,
		At:      w.At,
	}, nil
}
