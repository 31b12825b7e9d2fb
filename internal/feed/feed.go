// Package feed streams controller events to websocket spectators.
package feed

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/twistycube"
)

// Message types sent to and received from clients.
const (
	TypeHello    = "hello"
	TypeMove     = "move"
	TypeSolved   = "solved"
	TypeNotation = "notation"
	TypeError    = "error"
)

// Message is one JSON frame on the feed.
type Message struct {
	Type     string                `json:"type"`
	Session  string                `json:"session,omitempty"`
	Size     int                   `json:"size,omitempty"`
	Moves    int                   `json:"moves,omitempty"`
	Solved   bool                  `json:"solved,omitempty"`
	Event    *twistycube.MoveEvent `json:"event,omitempty"`
	Notation string                `json:"notation,omitempty"`
	Error    string                `json:"error,omitempty"`
	At       time.Time             `json:"at"`
}

// Hub is an http.Handler that upgrades requests to websockets and
// broadcasts every move and solve of its controller. Clients may send
// {"type":"notation","notation":"R U R'"} to turn the puzzle.
type Hub struct {
	ctrl     *twistycube.Controller
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub creates a hub and registers it as an observer of ctrl.
func NewHub(ctrl *twistycube.Controller, log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Hub{
		ctrl: ctrl,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	ctrl.OnMove(func(ev twistycube.MoveEvent) {
		h.Broadcast(Message{Type: TypeMove, Session: ev.Session, Event: &ev, At: ev.At})
	})
	ctrl.OnSolved(func(session string) {
		h.Broadcast(Message{Type: TypeSolved, Session: session, Solved: true, At: time.Now()})
	})
	return h
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMu
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	st := h.ctrl.Snapshot()
	h.send(conn, connMu, Message{
		Type:    TypeHello,
		Session: st.Session,
		Size:    st.Geometry.Size,
		Moves:   st.Moves,
		Solved:  st.Solved,
		At:      time.Now(),
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Debug("websocket read failed")
			}
			return
		}
		if msg.Type != TypeNotation {
			continue
		}
		turns, err := twistycube.ParseFaceTurns(msg.Notation)
		if err == nil {
			err = h.ctrl.ApplyTurns(turns...)
		}
		if err != nil {
			h.send(conn, connMu, Message{Type: TypeError, Notation: msg.Notation, Error: err.Error(), At: time.Now()})
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, mu *sync.Mutex, msg Message) {
	mu.Lock()
	defer mu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		h.log.WithError(err).Debug("websocket write failed")
	}
}

// Broadcast sends msg to every client, dropping the ones that fail.
func (h *Hub) Broadcast(msg Message) {
	var failed []*websocket.Conn
	h.mu.RLock()
	for conn, mu := range h.clients {
		mu.Lock()
		err := conn.WriteJSON(msg)
		mu.Unlock()
		if err != nil {
			h.log.WithError(err).Debug("websocket write failed")
			conn.Close()
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	}
}

// Serve listens on addr and serves the hub at /ws until srv is shut down.
func Serve(addr string, h *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.log.WithError(err).Error("feed server stopped")
		}
	}()
	return srv
}
