package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const tempPrefix = ".upload-"

// DiskStore keeps objects as plain files below a root directory
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) fullPath(objectPath string) (string, string, error) {
	clean, err := CleanPath(objectPath)
	if err != nil {
		return "", "", err
	}
	return clean, filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes to a temp file first so readers never see a partial object
func (s *DiskStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (*ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, full, err := s.fullPath(objectPath)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	size, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		if copyErr != nil {
			return nil, fmt.Errorf("failed to write object: %w", copyErr)
		}
		return nil, fmt.Errorf("failed to close object: %w", closeErr)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to move object into place: %w", err)
	}

	st, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if contentType == "" {
		contentType = detectContentType(clean)
	}
	return &ObjectInfo{Path: clean, Size: size, ContentType: contentType, UpdatedAt: st.ModTime()}, nil
}

func (s *DiskStore) Open(ctx context.Context, objectPath string) (io.ReadCloser, *ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	clean, full, err := s.fullPath(objectPath)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open object: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if st.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	contentType, err := sniffContentType(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, &ObjectInfo{Path: clean, Size: st.Size(), ContentType: contentType, UpdatedAt: st.ModTime()}, nil
}

// sniffContentType detects the type from the file's bytes and rewinds it.
// The extension is not trusted: disk keeps no metadata beside the name.
func sniffContentType(f *os.File) (string, error) {
	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read object: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind object: %w", err)
	}
	return detected.String(), nil
}

// Delete is a no-op for missing objects
func (s *DiskStore) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, full, err := s.fullPath(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *DiskStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	prefix = strings.TrimPrefix(prefix, "/")
	out := []ObjectInfo{}
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, ObjectInfo{
			Path:        rel,
			Size:        info.Size(),
			ContentType: detectContentType(rel),
			UpdatedAt:   info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	return out, nil
}

func detectContentType(p string) string {
	if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
		return ct
	}
	return DefaultContentType
}
