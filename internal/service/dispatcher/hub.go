package service_dispatcher

import (
	"log/slog"
	"sync"

	"github.com/humanbelnik/pollcast/core/internal/model"
)

const DefaultBuffer = 64

type Token uint64

type Handler func(model.Event)

// Subscription receives the events published to one topic, in publish order.
// Events is closed when the subscription ends, either by Unsubscribe or because
// the subscriber fell behind and was dropped.
type Subscription struct {
	Token Token
	Topic string

	events chan model.Event
	once   sync.Once
}

func (s *Subscription) Events() <-chan model.Event {
	return s.events
}

func (s *Subscription) close() {
	s.once.Do(func() {
		close(s.events)
	})
}

// Hub is an in-process topic fan-out. Publish never blocks: a subscriber whose
// buffer is full is dropped.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[Token]*Subscription
	byID   map[Token]*Subscription
	next   Token
	closed bool

	buffer int
	logger *slog.Logger
}

type Option func(*Hub)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func New(opts ...Option) *Hub {
	h := &Hub{
		topics: make(map[string]map[Token]*Subscription),
		byID:   make(map[Token]*Subscription),
		buffer: DefaultBuffer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Subscribe(topic string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	sub := &Subscription{
		Token:  h.next,
		Topic:  topic,
		events: make(chan model.Event, h.buffer),
	}
	if h.closed {
		sub.close()
		return sub
	}

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Token]*Subscription)
	}
	h.topics[topic][sub.Token] = sub
	h.byID[sub.Token] = sub

	h.logger.Debug("subscribed", "topic", topic, "token", sub.Token)
	return sub
}

// SubscribeFunc calls fn for every event of topic on a dedicated goroutine.
// A handler that cannot keep up gets dropped like any other subscriber.
func (h *Hub) SubscribeFunc(topic string, fn Handler) Token {
	sub := h.Subscribe(topic)
	go func() {
		for e := range sub.Events() {
			fn(e)
		}
	}()
	return sub.Token
}

func (h *Hub) Unsubscribe(token Token) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.byID[token]
	if !ok {
		return false
	}
	h.remove(sub)
	return true
}

func (h *Hub) Publish(topic string, event model.Event) {
	if event.Topic == "" {
		event.Topic = topic
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for token, sub := range h.topics[topic] {
		select {
		case sub.events <- event:
		default:
			h.logger.Warn("dropping slow subscriber", "topic", topic, "token", token)
			h.remove(sub)
		}
	}
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.byID {
		h.remove(sub)
	}
	h.closed = true
}

// h.mu must be held
func (h *Hub) remove(sub *Subscription) {
	delete(h.byID, sub.Token)
	if subs, ok := h.topics[sub.Topic]; ok {
		delete(subs, sub.Token)
		if len(subs) == 0 {
			delete(h.topics, sub.Topic)
		}
	}
	sub.close()
}
