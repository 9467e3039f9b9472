// Package live pushes donation and leaderboard changes to browsers over
// websockets.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Message is the envelope of every pushed frame.
type Message struct {
	Type       string `json:"type"`
	Data       any    `json:"data"`
	ServerTime int64  `json:"serverTime"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

type Options struct {
	// AllowedOrigins lists exact Origin values; empty allows any origin.
	AllowedOrigins []string

	// Snapshot, when set, is sent to every new subscriber as Type "hello".
	Snapshot func() any
	Logger   *log.Logger
}

type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64

	upgrader websocket.Upgrader
	snapshot func() any
	logger   *log.Logger
}

func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	allowed := map[string]bool{}
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = true
		}
	}
	return &Hub{
		subscribers: map[uint64]*subscriber{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		snapshot: opts.Snapshot,
		logger:   opts.Logger,
	}
}

// Count is the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func encode(topic string, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: topic, Data: payload, ServerTime: time.Now().UnixMilli()})
}

// Publish sends payload to every subscriber. Subscribers whose write fails
// are dropped.
func (h *Hub) Publish(topic string, payload any) {
	data, err := encode(topic, payload)
	if err != nil {
		h.logger.Printf("[live] marshal %s failed: %v", topic, err)
		return
	}

	h.mu.Lock()
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("[live] send %s to %d failed: %v", topic, id, err)
			h.disconnect(id)
		}
	}
}

func (h *Hub) subscribe(conn *websocket.Conn) (uint64, *subscriber) {
	id := h.nextID.Add(1)
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[id] = sub
	h.mu.Unlock()
	return id, sub
}

func (h *Hub) disconnect(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
	}
}

// ServeWS upgrades the request and keeps the connection until the client
// goes away. Client frames are read and discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[live] upgrade failed: %v", err)
		return
	}
	id, sub := h.subscribe(conn)
	defer h.disconnect(id)

	if h.snapshot != nil {
		data, err := encode("hello", h.snapshot())
		if err != nil {
			h.logger.Printf("[live] marshal snapshot failed: %v", err)
			return
		}
		if err := sub.write(data); err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
