package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lg/nutrition-tracker-api/tracker"
)

// setupHub serves the hub on /ws and dials one client.
func setupHub(t *testing.T) (*Hub, *websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	router := gin.New()
	router.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	// Registration happens in the server goroutine after the handshake.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Clients() != 1 {
		conn.Close()
		srv.Close()
		t.Fatalf("clients = %d, want 1", hub.Clients())
	}
	return hub, conn, func() { conn.Close(); srv.Close() }
}

func TestHub_PublishReachesClient(t *testing.T) {
	hub, conn, cleanup := setupHub(t)
	defer cleanup()

	hub.Publish(tracker.Event{Kind: tracker.EventLevelUp, At: time.Now(), Data: map[string]int{"level": 2}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got struct {
		Kind string         `json:"kind"`
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != tracker.EventLevelUp || got.Data["level"] != 2 {
		t.Errorf("unexpected event %s", msg)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, conn, cleanup := setupHub(t)
	defer cleanup()

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Clients() != 0 {
		t.Errorf("clients = %d after close, want 0", hub.Clients())
	}
	// Publishing with no clients is a no-op.
	hub.Publish(tracker.Event{Kind: tracker.EventBadgeUnlocked})
}

func TestHub_CheckOrigin(t *testing.T) {
	hub := NewHub([]string{"http://localhost:5173"})
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "http://evil.example")
	if hub.upgrader.CheckOrigin(req) {
		t.Error("unexpected origin accepted")
	}
	req.Header.Set("Origin", "http://localhost:5173")
	if !hub.upgrader.CheckOrigin(req) {
		t.Error("allowed origin rejected")
	}
}
