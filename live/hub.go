// Package live pushes full-collection snapshots to websocket subscribers.
// Every mutation observed on a watched collection triggers a re-query and a
// wholesale broadcast: subscribers replace, never merge.
package live

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	config "github.com/penielchurch/site-backend/config"
)

// SnapshotFunc resolves a subscribed path to its current full contents.
type SnapshotFunc func(ctx context.Context, path string) (interface{}, error)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // guards writes; gorilla allows one concurrent writer
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

type Hub struct {
	cfg      *config.Config
	snapshot SnapshotFunc

	mu   sync.RWMutex
	subs map[string]map[*client]bool // path -> subscribers
}

// Message is the frame pushed on every snapshot cycle.
type Message struct {
	Path      string      `json:"path"`
	Data      interface{} `json:"data"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func NewHub(cfg *config.Config, snapshot SnapshotFunc) *Hub {
	if snapshot == nil {
		snapshot = func(ctx context.Context, path string) (interface{}, error) {
			return querySnapshot(ctx, cfg, path)
		}
	}
	return &Hub{
		cfg:      cfg,
		snapshot: snapshot,
		subs:     make(map[string]map[*client]bool),
	}
}

// ServeWS upgrades the connection and subscribes it to one content path.
// The current snapshot is sent immediately so new subscribers never start
// empty. The donations feed additionally requires a valid admin token.
func (h *Hub) ServeWS(c *gin.Context) {
	path := c.Query("path")
	if !KnownPath(path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown path"})
		return
	}
	if path == PathSubmissions && !h.tokenValid(c.Query("token")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	cl := &client{conn: conn}

	h.mu.Lock()
	if h.subs[path] == nil {
		h.subs[path] = make(map[*client]bool)
	}
	h.subs[path][cl] = true
	h.mu.Unlock()

	if snap, err := h.snapshot(c.Request.Context(), path); err == nil {
		if err := cl.send(Message{Path: path, Data: snap, UpdatedAt: time.Now()}); err != nil {
			log.Printf("initial snapshot send failed for %s: %v", path, err)
		}
	} else {
		log.Printf("initial snapshot query failed for %s: %v", path, err)
	}

	// Read loop only detects close; subscribers never send payloads.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.subs[path], cl)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast re-queries a path and fans the fresh snapshot out to all of its
// subscribers. Dead connections are dropped on write failure.
func (h *Hub) Broadcast(ctx context.Context, path string) {
	h.mu.RLock()
	n := len(h.subs[path])
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	snap, err := h.snapshot(ctx, path)
	if err != nil {
		log.Printf("snapshot query failed for %s: %v", path, err)
		return
	}
	msg := Message{Path: path, Data: snap, UpdatedAt: time.Now()}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.subs[path]))
	for cl := range h.subs[path] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(msg); err != nil {
			h.mu.Lock()
			delete(h.subs[path], cl)
			h.mu.Unlock()
			cl.conn.Close()
		}
	}
}

// SubscriberCount reports how many connections follow a path.
func (h *Hub) SubscriberCount(path string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[path])
}

func (h *Hub) tokenValid(tokenStr string) bool {
	if tokenStr == "" {
		return false
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	return err == nil && token.Valid
}
