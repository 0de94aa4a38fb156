package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	config "github.com/penielchurch/site-backend/config"
)

// stubSnapshot serves canned data per path and counts queries.
type stubSnapshot struct {
	mu    sync.Mutex
	data  map[string]interface{}
	calls int
}

func (s *stubSnapshot) fn(ctx context.Context, path string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.data[path], nil
}

func newTestHub(t *testing.T, stub *stubSnapshot) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(&config.Config{JWTSecret: "test-secret"}, stub.fn)
	r := gin.New()
	r.GET("/ws/live", hub.ServeWS)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/live?" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", query, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestSubscribeReceivesInitialSnapshot(t *testing.T) {
	stub := &stubSnapshot{data: map[string]interface{}{
		PathBentoCards: []map[string]interface{}{{"title": "Join Us Online"}},
	}}
	_, server := newTestHub(t, stub)

	conn := dial(t, server, "path="+PathBentoCards)
	msg := readMessage(t, conn)

	if msg.Path != PathBentoCards {
		t.Errorf("path = %q, want %q", msg.Path, PathBentoCards)
	}
	cards, ok := msg.Data.([]interface{})
	if !ok || len(cards) != 1 {
		t.Fatalf("data = %#v, want one card", msg.Data)
	}
}

func TestBroadcastReplacesSnapshot(t *testing.T) {
	stub := &stubSnapshot{data: map[string]interface{}{
		PathGalleryItems: []map[string]interface{}{{"name": "one.jpg"}},
	}}
	hub, server := newTestHub(t, stub)

	conn := dial(t, server, "path="+PathGalleryItems)
	readMessage(t, conn) // initial snapshot

	// Remote change: the next snapshot has a different full list.
	stub.mu.Lock()
	stub.data[PathGalleryItems] = []map[string]interface{}{{"name": "one.jpg"}, {"name": "two.jpg"}}
	stub.mu.Unlock()

	hub.Broadcast(context.Background(), PathGalleryItems)

	msg := readMessage(t, conn)
	items, ok := msg.Data.([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("data = %#v, want the replaced two-item list", msg.Data)
	}
}

func TestBroadcastSkipsQueryWithoutSubscribers(t *testing.T) {
	stub := &stubSnapshot{data: map[string]interface{}{}}
	hub, _ := newTestHub(t, stub)

	hub.Broadcast(context.Background(), PathHero)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.calls != 0 {
		t.Errorf("snapshot queried %d times with no subscribers, want 0", stub.calls)
	}
}

func TestUnsubscribeOnClose(t *testing.T) {
	stub := &stubSnapshot{data: map[string]interface{}{}}
	hub, server := newTestHub(t, stub)

	conn := dial(t, server, "path="+PathHero)
	readMessage(t, conn)

	if n := hub.SubscriberCount(PathHero); n != 1 {
		t.Fatalf("subscribers = %d, want 1", n)
	}

	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.SubscriberCount(PathHero) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not removed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnknownPathRejected(t *testing.T) {
	_, server := newTestHub(t, &stubSnapshot{data: map[string]interface{}{}})

	resp, err := http.Get(server.URL + "/ws/live?path=site/other")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmissionsFeedRequiresToken(t *testing.T) {
	_, server := newTestHub(t, &stubSnapshot{data: map[string]interface{}{}})

	resp, err := http.Get(server.URL + "/ws/live?path=" + PathSubmissions)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
