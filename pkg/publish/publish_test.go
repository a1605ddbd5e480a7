package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	clientdist "github.com/vango-dev/designdocs/client/dist"
	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/assets"
	"github.com/vango-dev/designdocs/pkg/catalog"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

func newExporter() *Exporter {
	return &Exporter{
		Site:   catalog.New("Acme DS", reveal.Options{}, nil),
		Assets: clientdist.FS,
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	res, err := newExporter().Export(context.Background(), dir)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(res.Pages) != len(newExporter().Site.Paths()) {
		t.Errorf("pages = %d", len(res.Pages))
	}

	for _, rel := range []string{
		"index.html",
		"tokens/color/index.html",
		"components/button/index.html",
		"components/button/usage/index.html",
		"tools/token-name/index.html",
		"static/client.js",
		"static/site.css",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "components", "button", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, `data-reveal-state="revealed"`) {
		t.Error("static page contains no revealed sections")
	}
	for _, unwanted := range []string{`data-reveal-state="hidden"`, `data-hook="ScrollReveal"`, "data-session", "opacity:0"} {
		if strings.Contains(html, unwanted) {
			t.Errorf("static page contains %q", unwanted)
		}
	}
	if !strings.Contains(html, `<noscript><style>`) {
		t.Error("noscript fallback missing")
	}

	manifest, err := assets.Load(filepath.Join(dir, "static", assets.ManifestFile))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	for _, source := range []string{"client.js", "site.css"} {
		hashed := manifest.Resolve(source)
		if !assets.IsFingerprinted(hashed) {
			t.Errorf("%s not fingerprinted: %q", source, hashed)
		}
		if _, err := os.Stat(filepath.Join(dir, "static", hashed)); err != nil {
			t.Errorf("missing fingerprinted %s: %v", hashed, err)
		}
		if !strings.Contains(html, `"/static/`+hashed+`"`) {
			t.Errorf("page does not reference /static/%s", hashed)
		}
	}
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newExporter().Export(ctx, t.TempDir())
	if err != context.Canceled {
		t.Errorf("Export() err = %v, want context.Canceled", err)
	}
	if len(res.Pages) != 0 {
		t.Errorf("pages written after cancel: %v", res.Pages)
	}
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]*s3.PutObjectInput
	bodies  map[string]string
	failKey string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failKey {
		return nil, fmt.Errorf("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]*s3.PutObjectInput{}
		f.bodies = map[string]string{}
	}
	f.objects[key] = in
	f.bodies[key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader(t *testing.T) {
	dir := t.TempDir()
	files := fstest.MapFS{
		"index.html":              {Data: []byte("<html>home</html>")},
		"tokens/color/index.html": {Data: []byte("<html>color</html>")},
		"static/client.js":        {Data: []byte("void 0")},
	}
	for name, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	fake := &fakeS3{}
	u := &S3Uploader{Client: fake, Bucket: "docs", Prefix: "site", Concurrency: 2}
	res, err := u.Upload(context.Background(), dir)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	want := []string{"site/index.html", "site/static/client.js", "site/tokens/color/index.html"}
	if strings.Join(res.Keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", res.Keys, want)
	}
	if res.Bytes != int64(len("<html>home</html>")+len("<html>color</html>")+len("void 0")) {
		t.Errorf("bytes = %d", res.Bytes)
	}

	home := fake.objects["site/index.html"]
	if aws.ToString(home.Bucket) != "docs" {
		t.Errorf("bucket = %q", aws.ToString(home.Bucket))
	}
	if got := aws.ToString(home.ContentType); got != "text/html; charset=utf-8" {
		t.Errorf("html content type = %q", got)
	}
	if got := aws.ToString(home.CacheControl); got != "no-cache" {
		t.Errorf("html cache control = %q", got)
	}
	if got := aws.ToString(fake.objects["site/static/client.js"].ContentType); got != "text/javascript; charset=utf-8" {
		t.Errorf("js content type = %q", got)
	}
	if fake.bodies["site/tokens/color/index.html"] != "<html>color</html>" {
		t.Errorf("body = %q", fake.bodies["site/tokens/color/index.html"])
	}
}

func TestS3Uploader_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := (&S3Uploader{Client: &fakeS3{}}).Upload(context.Background(), dir)
	if errors.Code(err) != "E302" {
		t.Errorf("no bucket err = %v, want E302", err)
	}

	_, err = (&S3Uploader{Client: &fakeS3{failKey: "index.html"}, Bucket: "b"}).Upload(context.Background(), dir)
	if errors.Code(err) != "E301" {
		t.Errorf("put failure err = %v, want E301", err)
	}

	_, err = (&S3Uploader{Client: &fakeS3{}, Bucket: "b"}).Upload(context.Background(), filepath.Join(dir, "missing"))
	if errors.Code(err) != "E301" {
		t.Errorf("missing dir err = %v, want E301", err)
	}
}

func TestCacheControl(t *testing.T) {
	for key, want := range map[string]string{
		"site/index.html":                "no-cache",
		"site/static/manifest.json":      "no-cache",
		"site/static/client.js":          "public, max-age=3600",
		"site/static/client.ab12cd34.js": assets.ImmutableCache,
	} {
		if got := CacheControl(key); got != want {
			t.Errorf("CacheControl(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestContentType(t *testing.T) {
	for key, want := range map[string]string{
		"a/index.html": "text/html; charset=utf-8",
		"site.css":     "text/css; charset=utf-8",
		"blob":         "application/octet-stream",
	} {
		if got := ContentType(key); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", key, got, want)
		}
	}
}
