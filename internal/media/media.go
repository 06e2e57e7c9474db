package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// File is one uploaded image as received from the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// Backend stores and removes objects by key.
type Backend interface {
	// Put writes the object and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Options bound what the adapter accepts.
type Options struct {
	Folder   string
	MaxBytes int64
	Timeout  time.Duration
}

// extension -> canonical content type
var acceptedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var acceptedTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
	"image/webp": "image/webp",
}

// Adapter uploads images to the media store and deletes them by asset id.
type Adapter struct {
	backend Backend
	opts    Options
	log     *logger.Logger
}

// NewAdapter wraps backend with validation, timeouts and metrics.
func NewAdapter(backend Backend, opts Options, log *logger.Logger) *Adapter {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 * 1024 * 1024
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Adapter{backend: backend, opts: opts, log: log.With("component", "media")}
}

// MaxBytes is the per-file size ceiling.
func (a *Adapter) MaxBytes() int64 {
	return a.opts.MaxBytes
}

// Validate checks size, extension, declared type and sniffed content.
// field names the form part in the returned ValidationError.
func (a *Adapter) Validate(field string, f File) error {
	size := f.Size
	if int64(len(f.Content)) > size {
		size = int64(len(f.Content))
	}
	if size == 0 {
		return types.NewValidationError("invalid upload", types.FieldError{Field: field, Message: "file is empty"})
	}
	if size > a.opts.MaxBytes {
		return types.NewValidationError("invalid upload", types.FieldError{
			Field:   field,
			Message: fmt.Sprintf("file %q exceeds the %d byte limit", f.Name, a.opts.MaxBytes),
		})
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	byExt, ok := acceptedExtensions[ext]
	if !ok {
		return types.NewValidationError("invalid upload", types.FieldError{
			Field:   field,
			Message: fmt.Sprintf("file %q must be jpeg, jpg, png or webp", f.Name),
		})
	}

	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if _, ok := acceptedTypes[declared]; !ok {
		return types.NewValidationError("invalid upload", types.FieldError{
			Field:   field,
			Message: fmt.Sprintf("content type %q is not an accepted image type", f.ContentType),
		})
	}

	sniffed := mimetype.Detect(f.Content)
	if acceptedTypes[sniffed.String()] != byExt {
		return types.NewValidationError("invalid upload", types.FieldError{
			Field:   field,
			Message: fmt.Sprintf("file %q content is %s, not %s", f.Name, sniffed.String(), byExt),
		})
	}
	return nil
}

// Upload validates and stores f, returning the asset that now references it.
// A timeout or store failure is a MediaStoreError.
func (a *Adapter) Upload(ctx context.Context, field string, f File) (models.MediaAsset, error) {
	if err := a.Validate(field, f); err != nil {
		observe("upload", "rejected")
		return models.MediaAsset{}, err
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	key := uuid.NewString() + ext
	if a.opts.Folder != "" {
		key = strings.Trim(a.opts.Folder, "/") + "/" + key
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	start := time.Now()
	url, err := a.backend.Put(ctx, key, acceptedExtensions[ext], bytes.NewReader(f.Content))
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		observe("upload", "error")
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("upload timed out after %s: %w", a.opts.Timeout, err)
		}
		a.log.Warn("media upload failed", "field", field, "name", f.Name, "error", err)
		return models.MediaAsset{}, types.NewMediaStoreError("upload", err)
	}

	observe("upload", "ok")
	uploadBytes.Observe(float64(len(f.Content)))
	a.log.Debug("media uploaded", "field", field, "asset_id", key, "bytes", len(f.Content), "elapsed", time.Since(start))

	return models.MediaAsset{URL: url, AssetID: key}, nil
}

// Delete removes the asset. An empty id is a no-op and failures are logged, never returned.
func (a *Adapter) Delete(ctx context.Context, assetID string) {
	if assetID == "" {
		observe("delete", "skipped")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	if err := a.backend.Remove(ctx, assetID); err != nil {
		observe("delete", "error")
		a.log.Warn("media delete failed, asset left in store", "asset_id", assetID, "error", err)
		return
	}
	observe("delete", "ok")
}

// Ping reports whether the backing store is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}
