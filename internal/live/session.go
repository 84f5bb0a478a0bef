// Package live runs the browser side channel of a served page: a websocket
// per reader that keeps the table of contents in sync with scrolling and
// tells the page to reload when its source changes.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mohitxskull/daa-notes/internal/metrics"
	"github.com/mohitxskull/daa-notes/internal/toc"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// HeadingSource returns the headings of the page at route.
type HeadingSource interface {
	Headings(ctx context.Context, route string) ([]toc.Heading, error)
}

// HeadingSourceFunc adapts a function to HeadingSource.
type HeadingSourceFunc func(ctx context.Context, route string) ([]toc.Heading, error)

func (f HeadingSourceFunc) Headings(ctx context.Context, route string) ([]toc.Heading, error) {
	return f(ctx, route)
}

// Inbound message types.
const (
	MsgMount  = "mount"
	MsgScroll = "scroll"
)

// Outbound message types.
const (
	MsgActive = "active"
	MsgReload = "reload"
	MsgError  = "error"
)

// Request is a message from the page. Offsets follow the order of the
// indexed headings; null marks a heading that is not laid out.
type Request struct {
	Type    string     `json:"type"`
	Offsets []*float64 `json:"offsets"`
}

func (r Request) observer() toc.Offsets {
	out := make(toc.Offsets, len(r.Offsets))
	for i, v := range r.Offsets {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}

// Response is a message to the page.
type Response struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Content string `json:"content,omitempty"`
}

// Hub tracks the open sessions.
type Hub struct {
	source    HeadingSource
	threshold float64
	log       *slog.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

// NewHub returns a Hub that resolves headings through source.
func NewHub(source HeadingSource, threshold float64, log *slog.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		source:    source,
		threshold: threshold,
		log:       log,
		metrics:   m,
		sessions:  make(map[string]*session),
	}
}

type session struct {
	id      string
	route   string
	conn    *websocket.Conn
	locator *toc.Locator
	send    chan Response
	done    chan struct{}
	once    sync.Once
}

func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// ServeHTTP upgrades the request and runs a session for the route named by
// the "route" query parameter until the page goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	if route == "" {
		http.Error(w, "route is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("live: websocket upgrade", "error", err)
		return
	}

	s := &session{
		id:      uuid.NewString(),
		route:   route,
		conn:    conn,
		locator: toc.NewLocator(h.threshold),
		send:    make(chan Response, 8),
		done:    make(chan struct{}),
	}
	if !h.add(s) {
		conn.Close()
		return
	}
	defer h.remove(s)

	go h.writeLoop(s)
	h.readLoop(r.Context(), s)
}

func (h *Hub) add(s *session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sessions[s.id] = s
	h.wg.Add(1)
	if h.metrics != nil {
		h.metrics.LiveSessions.Inc()
	}
	return true
}

func (h *Hub) remove(s *session) {
	s.locator.Unmount()
	s.close()
	s.conn.Close()

	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.LiveSessions.Dec()
	}
	h.wg.Done()
}

// readLoop handles the page's events one at a time.
func (h *Hub) readLoop(ctx context.Context, s *session) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("live: websocket read", "session", s.id, "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			h.queue(s, Response{Type: MsgError, Session: s.id, Index: -1, Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case MsgMount:
			headings, err := h.source.Headings(ctx, s.route)
			if err != nil {
				h.queue(s, Response{Type: MsgError, Session: s.id, Index: -1, Content: err.Error()})
				continue
			}
			h.queue(s, h.active(s, s.locator.Mount(headings, req.observer())))
		case MsgScroll:
			h.queue(s, h.active(s, s.locator.Observe(req.observer())))
		default:
			h.queue(s, Response{Type: MsgError, Session: s.id, Index: -1, Content: "unknown message type: " + req.Type})
		}
	}
}

func (h *Hub) active(s *session, index int) Response {
	resp := Response{Type: MsgActive, Session: s.id, Index: index}
	if hs := s.locator.Headings(); index >= 0 && index < len(hs) {
		resp.ID = hs[index].ID
	}
	return resp
}

// queue hands resp to the writer, dropping it if the session is gone or
// the page is not keeping up.
func (h *Hub) queue(s *session, resp Response) {
	select {
	case s.send <- resp:
	case <-s.done:
	default:
		h.log.Debug("live: dropping message for slow session", "session", s.id, "type", resp.Type)
	}
}

func (h *Hub) writeLoop(s *session) {
	for {
		select {
		case <-s.done:
			return
		case resp := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(resp); err != nil {
				h.log.Debug("live: websocket write", "session", s.id, "error", err)
				s.close()
				s.conn.Close()
				return
			}
		}
	}
}

// Reload tells every page showing route to reload. An empty route reloads
// every page. It returns the number of sessions notified.
func (h *Hub) Reload(route string) int {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if route == "" || s.route == route {
			targets = append(targets, s)
		}
	}
	h.mu.Unlock()

	for _, s := range targets {
		h.queue(s, Response{Type: MsgReload, Session: s.id, Index: -1})
	}
	return len(targets)
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close ends every session and waits for them to finish.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for _, s := range h.sessions {
		s.close()
		s.conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}
