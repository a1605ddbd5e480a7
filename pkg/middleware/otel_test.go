package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/designdocs/pkg/reveal"
	"github.com/vango-dev/designdocs/pkg/vtest"
)

// recordingProvider captures span names and attributes on top of the
// no-op implementation.
type recordingProvider struct {
	noop.TracerProvider
	spans []*recordedSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{p: p}
}

type recordingTracer struct {
	noop.Tracer
	p *recordingProvider
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, kind: cfg.SpanKind(), attrs: map[attribute.Key]attribute.Value{}}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value
	}
	t.p.spans = append(t.p.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordedSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetName(name string)              { s.name = name }
func (s *recordedSpan) End(...trace.SpanEndOption)       { s.ended = true }
func (s *recordedSpan) SetStatus(c codes.Code, _ string) { s.status = c }
func (s *recordedSpan) SetAttributes(kvs ...attribute.KeyValue) {
	for _, kv := range kvs {
		s.attrs[kv.Key] = kv.Value
	}
}

func TestTracingHandler(t *testing.T) {
	tp := &recordingProvider{}
	tr := NewTracing(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	r := chi.NewRouter()
	r.Use(tr.Handler)
	r.Get("/components/{name}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := trace.SpanFromContext(r.Context()).(*recordedSpan); !ok {
			t.Error("handler context does not carry the request span")
		}
	})
	r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/healthz", func(http.ResponseWriter, *http.Request) {})

	for _, path := range []string{"/components/button", "/fail", "/healthz"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if len(tp.spans) != 2 {
		t.Fatalf("spans = %d, want 2 (healthz filtered)", len(tp.spans))
	}
	ok := tp.spans[0]
	if ok.name != "designdocs GET /components/{name}" {
		t.Errorf("span name = %q", ok.name)
	}
	if ok.kind != trace.SpanKindServer || !ok.ended || ok.status != codes.Ok {
		t.Errorf("span kind/ended/status = %v/%v/%v", ok.kind, ok.ended, ok.status)
	}
	if got := ok.attrs["test.attr"].AsString(); got != "ok" {
		t.Errorf("test.attr = %q", got)
	}
	if got := ok.attrs["http.status_code"].AsInt64(); got != 200 {
		t.Errorf("http.status_code = %d", got)
	}
	if tp.spans[1].status != codes.Error {
		t.Errorf("5xx span status = %v, want Error", tp.spans[1].status)
	}
}

func TestTracing_RecordReveal(t *testing.T) {
	tp := &recordingProvider{}
	tr := NewTracing(WithTracerProvider(tp))

	h := vtest.NewReveal()
	env := h.Env()
	env.OnChange = func(c reveal.Change) { tr.RecordReveal(context.Background(), c) }

	el, err := reveal.New(env, reveal.Options{ID: "intro", Variant: reveal.FadeLeft})
	if err != nil {
		t.Fatal(err)
	}
	el.Mount()
	h.Watcher.Deliver(el.Key())
	h.Clock.Advance(reveal.DefaultDuration)

	var names []string
	for _, s := range tp.spans {
		names = append(names, s.name)
		if !s.ended {
			t.Errorf("span %s not ended", s.name)
		}
	}
	want := []string{"reveal.hidden", "reveal.transitioning", "reveal.revealed"}
	if len(names) != len(want) {
		t.Fatalf("spans = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("span[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if got := tp.spans[1].attrs["reveal.variant"].AsString(); got != "fade-left" {
		t.Errorf("reveal.variant = %q", got)
	}
}

func TestTracing_NilIsNoop(t *testing.T) {
	var tr *Tracing
	tr.RecordReveal(context.Background(), reveal.Change{})
	called := false
	tr.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("nil Tracing handler did not call next")
	}
}
