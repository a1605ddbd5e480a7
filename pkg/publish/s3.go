package publish

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/assets"
)

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DefaultConcurrency bounds parallel PutObject calls.
const DefaultConcurrency = 8

// S3Uploader copies an export directory to a bucket.
type S3Uploader struct {
	Client PutObjectAPI
	Bucket string

	// Prefix is prepended to every key; "site/" gives "site/index.html".
	Prefix string

	Concurrency int
	Logger      *slog.Logger
}

// UploadResult summarizes an upload.
type UploadResult struct {
	Keys  []string
	Bytes int64
}

// Upload puts every file under dir. Keys use forward slashes. The first
// failure cancels the remaining uploads.
func (u *S3Uploader) Upload(ctx context.Context, dir string) (*UploadResult, error) {
	if u.Bucket == "" {
		return nil, errors.New("E302")
	}
	logger := u.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := u.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, errors.New("E301").WithDetail(dir).Wrap(err)
	}

	keys := make([]string, len(files))
	var total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		file := file
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return nil, errors.New("E301").WithDetail(file).Wrap(err)
		}
		key := u.key(filepath.ToSlash(rel))
		keys[i] = key

		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return errors.New("E301").WithDetail(file).Wrap(err)
			}
			_, err = u.Client.PutObject(gctx, &s3.PutObjectInput{
				Bucket:       aws.String(u.Bucket),
				Key:          aws.String(key),
				Body:         bytes.NewReader(data),
				ContentType:  aws.String(ContentType(key)),
				CacheControl: aws.String(CacheControl(key)),
			})
			if err != nil {
				return errors.New("E301").WithDetailf("s3://%s/%s", u.Bucket, key).Wrap(err)
			}
			total.Add(int64(len(data)))
			logger.Debug("publish: uploaded", "key", key, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(keys)
	logger.Info("publish: upload complete", "bucket", u.Bucket, "prefix", u.Prefix, "objects", len(keys))
	return &UploadResult{Keys: keys, Bytes: total.Load()}, nil
}

func (u *S3Uploader) key(rel string) string {
	prefix := strings.TrimPrefix(u.Prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + rel
}

// ContentType picks the Content-Type for an object key.
func ContentType(key string) string {
	switch ext := strings.ToLower(path.Ext(key)); ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}

// CacheControl keeps pages and the manifest fresh, caches fingerprinted
// assets forever and other assets briefly.
func CacheControl(key string) string {
	switch {
	case strings.HasSuffix(key, ".html"), path.Base(key) == assets.ManifestFile:
		return "no-cache"
	case assets.IsFingerprinted(key):
		return assets.ImmutableCache
	}
	return "public, max-age=3600"
}
