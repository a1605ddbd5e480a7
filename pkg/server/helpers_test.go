package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/protocol"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

var (
	sessionRe   = regexp.MustCompile(`data-session="([^"]+)"`)
	hiddenKeyRe = regexp.MustCompile(`data-reveal-key="(r\d+)" data-reveal-state="hidden"`)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// logBuffer collects log output written from several goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *Config {
	logger := discardLogger()
	return &Config{
		Site:          catalog.New("Test System", reveal.Options{Duration: 20 * time.Millisecond}, logger),
		Logger:        logger,
		AttachTimeout: time.Minute,
		IdleTimeout:   time.Minute,
	}
}

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	config := testConfig()
	if mutate != nil {
		mutate(config)
	}
	srv, err := New(config)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown() error: %v", err)
		}
		ts.Close()
	})
	return srv, ts
}

// fetchPage returns the page body and its session id.
func fetchPage(t *testing.T, ts *httptest.Server, path string) (string, string) {
	t.Helper()
	return fetchPageWith(t, ts.Client(), ts, path)
}

// fetchPageWith is fetchPage through client, which may carry a cookie jar.
func fetchPageWith(t *testing.T, client *http.Client, ts *httptest.Server, path string) (string, string) {
	t.Helper()
	resp, err := client.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want 200", path, resp.StatusCode)
	}
	m := sessionRe.FindSubmatch(body)
	if m == nil {
		t.Fatalf("GET %s: no data-session in page", path)
	}
	return string(body), string(m[1])
}

func hiddenKeys(html string) []string {
	var keys []string
	for _, m := range hiddenKeyRe.FindAllStringSubmatch(html, -1) {
		keys = append(keys, m[1])
	}
	return keys
}

func dial(t *testing.T, ts *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=" + session
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, f protocol.ClientFrame) {
	t.Helper()
	data, err := protocol.EncodeClient(f)
	if err != nil {
		t.Fatalf("EncodeClient() error: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) protocol.ServerFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := protocol.DecodeServer(data)
	if err != nil {
		t.Fatalf("DecodeServer(%s) error: %v", data, err)
	}
	return f
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
