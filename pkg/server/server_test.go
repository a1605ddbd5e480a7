package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/designdocs/pkg/assets"
	"github.com/vango-dev/designdocs/pkg/middleware"
	"github.com/vango-dev/designdocs/pkg/protocol"
)

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func TestPageCreatesSession(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	body, id := fetchPage(t, ts, "/")

	if srv.Sessions().Get(id) == nil {
		t.Fatalf("session %q not registered", id)
	}
	if !strings.Contains(body, `data-hook="ScrollReveal"`) {
		t.Error("page has no ScrollReveal hooks")
	}
	if !strings.Contains(body, "<noscript>") {
		t.Error("page is missing the noscript fallback")
	}
	if len(hiddenKeys(body)) == 0 {
		t.Error("expected hidden trackers on the index page")
	}
}

func TestPageRoutes(t *testing.T) {
	_, ts := newTestServer(t, nil)

	for _, path := range []string{
		"/",
		"/tokens/color",
		"/components/button",
		"/components/button/usage",
		"/tools/token-name",
		"/tools/token-name?component=chip&property=color",
	} {
		t.Run(path, func(t *testing.T) {
			fetchPage(t, ts, path)
		})
	}
}

func TestPageNotFoundClosesSession(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	for _, path := range []string{"/nope", "/components/nope", "/tokens/nope", "/components/button/nope"} {
		resp, body := get(t, ts.Client(), ts.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
		if strings.Contains(body, "data-session") {
			t.Errorf("GET %s: not-found page carries a session", path)
		}
	}
	if n := srv.Sessions().Len(); n != 0 {
		t.Errorf("Sessions().Len() = %d, want 0", n)
	}
}

func TestStaticAndHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.Client(), ts.URL+"/static/client.js")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "revealAll") {
		t.Errorf("client.js: status %d, body %.40q", resp.StatusCode, body)
	}
	resp, body = get(t, ts.Client(), ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok\n" {
		t.Errorf("healthz: status %d, body %q", resp.StatusCode, body)
	}
}

var clientSrcRe = regexp.MustCompile(`<script src="(/static/[^"]+)"`)

func TestFingerprintedAssets(t *testing.T) {
	_, ts := newTestServer(t, nil)

	body, _ := fetchPage(t, ts, "/")
	m := clientSrcRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no client script in page")
	}
	if !assets.IsFingerprinted(m[1]) {
		t.Fatalf("client script %q is not fingerprinted", m[1])
	}
	resp, script := get(t, ts.Client(), ts.URL+m[1])
	if resp.StatusCode != http.StatusOK || !strings.Contains(script, "revealAll") {
		t.Errorf("%s: status %d", m[1], resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != assets.ImmutableCache {
		t.Errorf("Cache-Control = %q, want %q", cc, assets.ImmutableCache)
	}
	if !regexp.MustCompile(`<link rel="stylesheet" href="/static/site\.[0-9a-f]{8}\.css">`).MatchString(body) {
		t.Error("stylesheet is not fingerprinted")
	}
}

func TestDevAssetsUnhashed(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.Dev = true })

	body, _ := fetchPage(t, ts, "/")
	if !strings.Contains(body, `<script src="/static/client.js"`) {
		t.Error("dev page should reference client.js directly")
	}
	resp, _ := get(t, ts.Client(), ts.URL+"/static/client.js")
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cc)
	}
}

func TestMaxSessions(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.MaxSessions = 1 })

	fetchPage(t, ts, "/")
	resp, _ := get(t, ts.Client(), ts.URL+"/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, ts := newTestServer(t, func(c *Config) {
		c.Metrics = middleware.NewMetrics(middleware.WithRegistry(reg))
		c.Gatherer = reg
	})

	fetchPage(t, ts, "/tokens/color")
	resp, body := get(t, ts.Client(), ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{
		`designdocs_http_requests_total{method="GET",route="/tokens/{kind}",status="200"} 1`,
		"designdocs_active_sessions 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsEndpointDisabled(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, _ := get(t, ts.Client(), ts.URL+"/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketFallbackRevealsEverything(t *testing.T) {
	_, ts := newTestServer(t, nil)
	body, id := fetchPage(t, ts, "/")
	keys := hiddenKeys(body)

	conn := dial(t, ts, id)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: false}})

	transitions := map[string]bool{}
	revealed := map[string]bool{}
	for len(revealed) < len(keys) {
		switch f := readFrame(t, conn).(type) {
		case *protocol.Transition:
			if len(revealed) > 0 {
				t.Fatalf("transition for %s after a revealed frame", f.Key)
			}
			if !strings.Contains(f.Transition, "cubic-bezier") {
				t.Errorf("transition %q has no easing", f.Transition)
			}
			transitions[f.Key] = true
		case *protocol.Revealed:
			if !transitions[f.Key] {
				t.Errorf("revealed %s before its transition", f.Key)
			}
			revealed[f.Key] = true
		default:
			t.Fatalf("unexpected frame %T", f)
		}
	}
	for _, k := range keys {
		if !revealed[k] {
			t.Errorf("key %s never revealed", k)
		}
	}
}

func TestWebSocketIntersectReveals(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	body, id := fetchPage(t, ts, "/")
	key := hiddenKeys(body)[0]

	conn := dial(t, ts, id)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: true}})
	send(t, conn, &protocol.Hook{Key: key, Name: "intersect"})

	tr, ok := readFrame(t, conn).(*protocol.Transition)
	if !ok || tr.Key != key {
		t.Fatalf("first frame = %+v, want transition for %s", tr, key)
	}
	if !strings.Contains(tr.Style, "opacity:1") {
		t.Errorf("transition style %q is not the visible pose", tr.Style)
	}
	rv, ok := readFrame(t, conn).(*protocol.Revealed)
	if !ok || rv.Key != key {
		t.Fatalf("second frame = %+v, want revealed for %s", rv, key)
	}

	ids := srv.Sessions().Get(id).Revealed()
	if len(ids) != 1 || ids[0] != "scroll-reveal-0" {
		t.Errorf("Revealed() = %v, want [scroll-reveal-0]", ids)
	}

	// A repeated intersection for the same key finds nothing to deliver.
	send(t, conn, &protocol.Hook{Key: key, Name: "intersect"})
	send(t, conn, &protocol.Tab{Group: "button", Tab: "nope"})
	if f, ok := readFrame(t, conn).(*protocol.Error); !ok || f.Code != "E203" {
		t.Errorf("frame after duplicate intersect = %+v, want E203 error", f)
	}
}

var usageBodyRe = regexp.MustCompile(`data-reveal-id="button-usage-body" data-reveal-key="(r\d+)" data-reveal-state="(\w+)"`)

func TestWebSocketIntersectLogsRatio(t *testing.T) {
	logs := &logBuffer{}
	_, ts := newTestServer(t, func(c *Config) {
		c.Logger = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})
	body, id := fetchPage(t, ts, "/")
	key := hiddenKeys(body)[0]

	conn := dial(t, ts, id)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: true}})
	send(t, conn, &protocol.Hook{Key: key, Name: "intersect", Data: map[string]any{"ratio": 0.5}})
	if _, ok := readFrame(t, conn).(*protocol.Transition); !ok {
		t.Fatal("expected transition frame")
	}

	waitFor(t, "intersect log", func() bool {
		out := logs.String()
		return strings.Contains(out, "element entered viewport") &&
			strings.Contains(out, "key="+key+" ratio=0.5")
	})
}

func TestWebSocketTabSwitchUsesFastPathOnRevisit(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, id := fetchPage(t, ts, "/components/button")

	conn := dial(t, ts, id)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: true}})

	switchTo := func(tab string) string {
		t.Helper()
		send(t, conn, &protocol.Tab{Group: "button", Tab: tab})
		f, ok := readFrame(t, conn).(*protocol.Replace)
		if !ok {
			t.Fatalf("tab %s: got %T, want replace", tab, f)
		}
		if f.Target != "tabs-button-panel" {
			t.Errorf("replace target = %q", f.Target)
		}
		return f.HTML
	}

	html := switchTo("usage")
	m := usageBodyRe.FindStringSubmatch(html)
	if m == nil || m[2] != "hidden" {
		t.Fatalf("usage panel body not hidden on first visit: %v", m)
	}
	send(t, conn, &protocol.Hook{Key: m[1], Name: "intersect"})
	if _, ok := readFrame(t, conn).(*protocol.Transition); !ok {
		t.Fatal("expected transition frame")
	}
	if _, ok := readFrame(t, conn).(*protocol.Revealed); !ok {
		t.Fatal("expected revealed frame")
	}

	switchTo("overview")
	html = switchTo("usage")
	m = usageBodyRe.FindStringSubmatch(html)
	if m == nil || m[2] != "revealed" {
		t.Fatalf("usage panel body on revisit: %v, want revealed", m)
	}
}

func TestBrowserCookieSharesRegistryAcrossPages(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: jar}

	body, first := fetchPageWith(t, client, ts, "/components/button/usage")
	m := usageBodyRe.FindStringSubmatch(body)
	if m == nil || m[2] != "hidden" {
		t.Fatalf("usage body on first load: %v, want hidden", m)
	}
	u, _ := url.Parse(ts.URL)
	if len(jar.Cookies(u)) != 1 || jar.Cookies(u)[0].Name != BrowserCookie {
		t.Fatalf("cookies = %v, want %s", jar.Cookies(u), BrowserCookie)
	}

	conn := dial(t, ts, first)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: true}})
	send(t, conn, &protocol.Hook{Key: m[1], Name: "intersect"})
	if _, ok := readFrame(t, conn).(*protocol.Transition); !ok {
		t.Fatal("expected transition frame")
	}

	body, second := fetchPageWith(t, client, ts, "/components/button/usage")
	if second == first {
		t.Fatal("second load reused the first session")
	}
	m = usageBodyRe.FindStringSubmatch(body)
	if m == nil || m[2] != "revealed" {
		t.Fatalf("usage body on second load: %v, want revealed", m)
	}
	a, b := srv.Sessions().Get(first), srv.Sessions().Get(second)
	if a == nil || b == nil || a.Browser != b.Browser {
		t.Fatal("page views of one browser got different browser ids")
	}

	// A browser without the cookie starts from an empty registry.
	body, _ = fetchPage(t, ts, "/components/button/usage")
	if m := usageBodyRe.FindStringSubmatch(body); m == nil || m[2] != "hidden" {
		t.Errorf("usage body for a new browser: %v, want hidden", m)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, "does-not-exist")

	f, ok := readFrame(t, conn).(*protocol.Error)
	if !ok || f.Code != "E210" || !f.Fatal {
		t.Fatalf("frame = %+v, want fatal E210", f)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Errorf("read after error = %v, want policy-violation close", err)
	}
}

func TestWebSocketSecondAttachRejected(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	_, id := fetchPage(t, ts, "/")

	dial(t, ts, id)
	waitFor(t, "attach", srv.Sessions().Get(id).Attached)
	second := dial(t, ts, id)
	f, ok := readFrame(t, second).(*protocol.Error)
	if !ok || f.Code != "E211" {
		t.Fatalf("frame = %+v, want E211", f)
	}
}

func TestWebSocketMalformedFrames(t *testing.T) {
	_, ts := newTestServer(t, nil)
	_, id := fetchPage(t, ts, "/")
	conn := dial(t, ts, id)

	tests := []struct {
		name string
		data string
		code string
	}{
		{"unknown type", `{"type":"nope"}`, "E201"},
		{"not json", `{`, "E200"},
		{"missing key", `{"type":"hook","name":"intersect"}`, "E200"},
		{"too large", `{"type":"hello","pad":"` + strings.Repeat("x", protocol.MaxFrameSize) + `"}`, "E202"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.data)); err != nil {
				t.Fatalf("write: %v", err)
			}
			f, ok := readFrame(t, conn).(*protocol.Error)
			if !ok || f.Code != tt.code || f.Fatal {
				t.Errorf("frame = %+v, want non-fatal %s", f, tt.code)
			}
		})
	}
}

func TestWebSocketCloseRemovesSession(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	_, id := fetchPage(t, ts, "/")
	conn := dial(t, ts, id)
	sess := srv.Sessions().Get(id)
	waitFor(t, "attach", sess.Attached)

	conn.Close()
	waitFor(t, "session removal", func() bool { return srv.Sessions().Get(id) == nil })
	sess.Wait()
}

func TestRevealResetDevOnly(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := ts.Client().Post(ts.URL+"/debug/reveal/reset", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		t.Error("reset route is served outside dev mode")
	}
}

func TestRevealResetClearsRegistry(t *testing.T) {
	srv, ts := newTestServer(t, func(c *Config) { c.Dev = true })
	body, id := fetchPage(t, ts, "/")

	conn := dial(t, ts, id)
	send(t, conn, &protocol.Hello{Caps: protocol.Caps{IntersectionObserver: true}})
	send(t, conn, &protocol.Hook{Key: hiddenKeys(body)[0], Name: "intersect"})
	readFrame(t, conn)
	sess := srv.Sessions().Get(id)
	if len(sess.Revealed()) != 1 {
		t.Fatalf("Revealed() = %v, want one id", sess.Revealed())
	}

	resp, err := ts.Client().Post(ts.URL+"/debug/reveal/reset?session="+id, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if ids := sess.Revealed(); len(ids) != 0 {
		t.Errorf("Revealed() after reset = %v", ids)
	}

	resp, err = ts.Client().Post(ts.URL+"/debug/reveal/reset?session=missing", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", resp.StatusCode)
	}
}
