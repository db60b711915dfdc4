// uploads.go - Stores book cover images on local disk

package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrFileType     = errors.New("file type not allowed")
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyName    = errors.New("no file selected")
)

// Store writes covers into Dir under sanitised, collision-free names.
type Store struct {
	Dir      string
	Allowed  []string // lower-case extensions without the dot
	MaxBytes int64    // zero means no limit
	Now      func() time.Time
}

func NewStore(dir string, allowed []string, maxMB int64) *Store {
	return &Store{Dir: dir, Allowed: allowed, MaxBytes: maxMB << 20, Now: time.Now}
}

// IsAllowed reports whether filename has an allow-listed extension.
func (s *Store) IsAllowed(filename string) bool {
	ext := extension(filename)
	if ext == "" {
		return false
	}
	for _, a := range s.Allowed {
		if a == ext {
			return true
		}
	}
	return false
}

// Name builds the stored file name: UTC timestamp, slugged base name, a
// short random suffix and the lower-cased extension.
func (s *Store) Name(original string) string {
	ext := extension(original)
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = slug.Make(base)
	if base == "" {
		base = "cover"
	}
	stamp := s.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", stamp, base, uuid.NewString()[:8], ext)
}

// Save validates and writes an uploaded file. It returns the stored name,
// relative to Dir.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ErrEmptyName
	}
	if !s.IsAllowed(fh.Filename) {
		return "", ErrFileType
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := s.Name(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create cover: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return name, nil
}

// Remove deletes a stored cover. Missing files and empty names are ignored.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
