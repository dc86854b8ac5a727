package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serve registers every upgraded connection for userID and keeps it open
// until the client goes away.
func serve(t *testing.T, m *Manager, userID uint) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.Register(userID, c)
		defer m.Unregister(userID, c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishNotConnected(t *testing.T) {
	m := NewManager()
	if err := m.Publish(1, []byte("{}")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("got %v, want ErrNotConnected", err)
	}
}

func TestPublishDeliversToUser(t *testing.T) {
	m := NewManager()
	srv := serve(t, m, 7)
	client := dial(t, srv)
	waitFor(t, func() bool { return m.IsConnected(7) })

	if err := m.Publish(7, []byte(`{"type":"favourite_added"}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"type":"favourite_added"}` {
		t.Errorf("msg = %s", msg)
	}

	if ids := m.List(); len(ids) != 1 || ids[0] != 7 {
		t.Errorf("List() = %v, want [7]", ids)
	}
}

func TestUnregisterOnClientClose(t *testing.T) {
	m := NewManager()
	srv := serve(t, m, 3)
	client := dial(t, srv)
	waitFor(t, func() bool { return m.IsConnected(3) })

	_ = client.Close()
	waitFor(t, func() bool { return !m.IsConnected(3) })
}

func TestRegisterReplacesOldConnection(t *testing.T) {
	m := NewManager()
	srv := serve(t, m, 5)

	first := dial(t, srv)
	waitFor(t, func() bool { return m.IsConnected(5) })
	second := dial(t, srv)

	// The first connection is closed by the server once the second registers.
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected the replaced connection to be closed")
	}

	waitFor(t, func() bool { return m.Publish(5, []byte("hi")) == nil })
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, msg, err := second.ReadMessage(); err != nil || string(msg) != "hi" {
		t.Errorf("second connection: %q, %v", msg, err)
	}
}
