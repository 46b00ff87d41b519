// Package storage holds the object stores used for uploaded files.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no object exists at a path
	ErrNotFound = errors.New("object not found")
	// ErrInvalidPath is returned for empty paths or paths escaping the store root
	ErrInvalidPath = errors.New("invalid object path")
)

// DefaultContentType is used when an object carries no content type
const DefaultContentType = "application/octet-stream"

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ObjectStore stores whole objects addressed by slash-separated paths.
// Put replaces any object already stored at the path.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (*ObjectInfo, error)
	Open(ctx context.Context, objectPath string) (io.ReadCloser, *ObjectInfo, error)
	Delete(ctx context.Context, objectPath string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// CleanPath normalizes an object path and rejects traversal outside the root.
func CleanPath(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" || strings.Contains(p, "\x00") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return "", ErrInvalidPath
	}
	return p, nil
}

// PublicURL builds the URL under which the HTTP server serves an object.
func PublicURL(baseURL, objectPath string) string {
	segs := strings.Split(objectPath, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(baseURL, "/") + "/files/" + strings.Join(segs, "/")
}

// countingReader records how many bytes passed through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
