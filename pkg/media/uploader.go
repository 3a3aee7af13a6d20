package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("media: unsupported content type")
	ErrTooLarge        = errors.New("media: upload too large")
	ErrEmpty           = errors.New("media: empty upload")
)

// URLPrefix is prepended to object keys to form the reference returned to clients.
const URLPrefix = "/api/v1/media/"

// Uploader validates uploads and writes them to an ObjectStore under random keys.
type Uploader struct {
	store    ObjectStore
	maxBytes int64
}

func NewUploader(store ObjectStore, maxBytes int64) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes}
}

// Store returns the backing object store.
func (u *Uploader) Store() ObjectStore { return u.store }

// Upload stores r and returns its key. The content type always comes from
// the first bytes of the body; whatever the client declared is ignored.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	if size == 0 {
		return "", ErrEmpty
	}
	if u.maxBytes > 0 && size > u.maxBytes {
		return "", ErrTooLarge
	}

	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)
	ct := normalizeType(http.DetectContentType(head))
	if !Allowed(ct) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	key := NewKey(filename, ct)
	if err := u.store.Put(ctx, key, br, size, ct); err != nil {
		return "", err
	}
	return key, nil
}

// Allowed reports whether a content type may be uploaded. SVG is refused
// since browsers run scripts embedded in it.
func Allowed(contentType string) bool {
	if contentType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "video/")
}

// NewKey returns a random object key keeping a recognisable extension. The
// filename's extension is kept only when it agrees with contentType.
func NewKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" && normalizeType(mime.TypeByExtension(ext)) != contentType {
		ext = ""
	}
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}

// URL returns the client-facing reference for a key.
func URL(key string) string {
	return URLPrefix + key
}

func normalizeType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}
