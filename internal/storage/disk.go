package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"portfolio_api/internal/common"
)

// DiskStore writes blobs into a local directory served as static files.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !validName(name) {
		return fmt.Errorf("invalid blob name %q: %w", name, common.ErrBadRequest)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write blob file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to close blob file: %w", err)
	}
	return nil
}

func (s *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, common.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob file: %w", err)
	}
	return f, nil
}

// validName rejects anything that could escape the upload directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
