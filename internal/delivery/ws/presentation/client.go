package ws_presentation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/humanbelnik/pollcast/core/internal/model"
	service_dispatcher "github.com/humanbelnik/pollcast/core/internal/service/dispatcher"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

type Subscriber interface {
	Subscribe(topic string) *service_dispatcher.Subscription
	Unsubscribe(token service_dispatcher.Token) bool
}

// Client is one websocket connection bound to a presentation. Events of every
// subscribed topic are funneled into send and written by a single pump.
type Client struct {
	conn           *websocket.Conn
	presentationID uuid.UUID
	presenter      bool
	send           chan model.Event

	subscriber Subscriber

	mu     sync.Mutex
	subs   map[string]*service_dispatcher.Subscription
	closed bool
	done   chan struct{}
}

func newClient(conn *websocket.Conn, subscriber Subscriber, presentationID uuid.UUID, presenter bool) *Client {
	return &Client{
		conn:           conn,
		presentationID: presentationID,
		presenter:      presenter,
		send:           make(chan model.Event, sendBuffer),
		subscriber:     subscriber,
		subs:           make(map[string]*service_dispatcher.Subscription),
		done:           make(chan struct{}),
	}
}

// subscribe starts forwarding topic to the client. Subscribing twice is a no-op.
func (c *Client) subscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.subs[topic]; ok {
		return
	}

	sub := c.subscriber.Subscribe(topic)
	c.subs[topic] = sub
	go c.forward(sub)
}

func (c *Client) unsubscribe(topic string) bool {
	c.mu.Lock()
	sub, ok := c.subs[topic]
	delete(c.subs, topic)
	c.mu.Unlock()

	if ok {
		c.subscriber.Unsubscribe(sub.Token)
	}
	return ok
}

func (c *Client) forward(sub *service_dispatcher.Subscription) {
	for e := range sub.Events() {
		c.enqueue(e)
	}

	// Still registered means the dispatcher dropped us for falling behind.
	c.mu.Lock()
	dropped := c.subs[sub.Topic] == sub
	c.mu.Unlock()
	if dropped {
		c.close()
	}
}

// enqueue hands e to the write pump, disconnecting a client that cannot keep up.
func (c *Client) enqueue(e model.Event) {
	select {
	case <-c.done:
	case c.send <- e:
	default:
		c.close()
	}
}

// close ends the client. The write pump sends the close frame and releases
// the connection.
func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = make(map[string]*service_dispatcher.Subscription)
	close(c.done)
	c.mu.Unlock()

	for _, sub := range subs {
		c.subscriber.Unsubscribe(sub.Token)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case e := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump(handle func(*Client, []byte)) {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(c, message)
	}
}
