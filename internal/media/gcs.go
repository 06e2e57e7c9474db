package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
)

// GCSOptions locate the bucket and decide how public URLs are built.
type GCSOptions struct {
	Bucket        string
	CDNDomain     string
	PublicBaseURL string
	EmulatorHost  string
}

// GCSBackend stores objects in a Google Cloud Storage bucket (or the fake-gcs emulator).
type GCSBackend struct {
	client *storage.Client
	opts   GCSOptions
	log    *logger.Logger
}

// NewGCSBackend creates the storage client.
func NewGCSBackend(ctx context.Context, opts GCSOptions, log *logger.Logger) (*GCSBackend, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}
	opts.EmulatorHost = strings.TrimRight(strings.TrimSpace(opts.EmulatorHost), "/")
	opts.PublicBaseURL = strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")

	var clientOpts []option.ClientOption
	if opts.EmulatorHost != "" {
		// the storage client reads the emulator endpoint from the environment
		_ = os.Setenv("STORAGE_EMULATOR_HOST", opts.EmulatorHost)
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	} else {
		// application default credentials
		clientOpts = append(clientOpts, option.WithScopes(storage.ScopeReadWrite))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	log.Info("object storage initialized",
		"bucket", opts.Bucket,
		"emulator_host", opts.EmulatorHost,
		"cdn_domain", opts.CDNDomain,
		"public_base_url", opts.PublicBaseURL,
	)

	return &GCSBackend{client: client, opts: opts, log: log}, nil
}

func (g *GCSBackend) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	w := g.client.Bucket(g.opts.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return g.PublicURL(key), nil
}

// Remove deletes the object; an object that is already gone is not an error.
func (g *GCSBackend) Remove(ctx context.Context, key string) error {
	err := g.client.Bucket(g.opts.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, g.opts.Bucket, err)
	}
	return nil
}

func (g *GCSBackend) Ping(ctx context.Context) error {
	if _, err := g.client.Bucket(g.opts.Bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %q unreachable: %w", g.opts.Bucket, err)
	}
	return nil
}

func (g *GCSBackend) Close() error {
	return g.client.Close()
}

// PublicURL returns the browser-facing URL for key.
func (g *GCSBackend) PublicURL(key string) string {
	return publicURL(g.opts, key)
}

func publicURL(opts GCSOptions, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if opts.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", opts.CDNDomain, key)
	}
	if opts.EmulatorHost != "" {
		base := opts.PublicBaseURL
		if base == "" {
			base = opts.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(opts.Bucket), url.PathEscape(key))
	}
	if opts.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", opts.PublicBaseURL, opts.Bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", opts.Bucket, key)
}
