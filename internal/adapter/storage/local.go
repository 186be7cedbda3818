package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/iho/fintrack/internal/domain"
)

// ErrInvalidPath is returned for receipt paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid receipt path")

// LocalStorage implements usecase.ReceiptStorage on an afero filesystem.
// Files live under <user id>/<random name><ext> relative to the filesystem root.
type LocalStorage struct {
	fs afero.Fs
}

// NewLocalStorage stores receipts on disk under root, creating it if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipts directory: %w", err)
	}
	return NewStorage(afero.NewBasePathFs(osFs, root)), nil
}

// NewStorage stores receipts on fsys, treating its root as the receipts root.
func NewStorage(fsys afero.Fs) *LocalStorage {
	return &LocalStorage{fs: fsys}
}

// Save writes r to a new file and returns its path relative to the root.
func (s *LocalStorage) Save(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if userID == "" || strings.ContainsAny(userID, `/\.`) {
		return "", ErrInvalidPath
	}

	if err := s.fs.MkdirAll(userID, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}

	rel := path.Join(userID, uuid.NewString()+extension(filename))
	full := filepath.FromSlash(rel)

	f, err := s.fs.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(full)
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(full)
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}

	return rel, nil
}

// Open opens a stored receipt.
func (s *LocalStorage) Open(_ context.Context, rel string) (io.ReadCloser, error) {
	full, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrReceiptNotFound
	}
	return f, err
}

// Delete removes a stored receipt. Missing files are not an error.
func (s *LocalStorage) Delete(_ context.Context, rel string) error {
	full, err := s.resolve(rel)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) resolve(rel string) (string, error) {
	if rel == "" || !fs.ValidPath(rel) {
		return "", ErrInvalidPath
	}
	return filepath.FromSlash(rel), nil
}

// extension keeps a short alphanumeric extension of name, lowercased.
func extension(name string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
