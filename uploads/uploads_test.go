// uploads_test.go - Tests for cover validation, naming and storage

package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	s := NewStore(filepath.Join(t.TempDir(), "covers"), []string{"png", "jpg", "jpeg", "gif"}, 1)
	s.Now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 5, 0, time.UTC) }
	return s
}

// fileHeader builds a real multipart header the way a browser form would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("cover_photo", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/books/add", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["cover_photo"][0]
}

func TestIsAllowed(t *testing.T) {
	s := newStore(t)
	assert.True(t, s.IsAllowed("cover.PNG"))
	assert.True(t, s.IsAllowed("a.b.jpeg"))
	assert.False(t, s.IsAllowed("script.exe"))
	assert.False(t, s.IsAllowed("noext"))
}

func TestName(t *testing.T) {
	s := newStore(t)
	name := s.Name("../My Cover Photo!.JPG")
	assert.Regexp(t, regexp.MustCompile(`^20250310_093005_my-cover-photo_[0-9a-f]{8}\.jpg$`), name)
	assert.NotEqual(t, name, s.Name("../My Cover Photo!.JPG"))

	assert.Regexp(t, `^20250310_093005_cover_[0-9a-f]{8}\.png$`, s.Name("!!!.png"))
}

func TestSaveAndRemove(t *testing.T) {
	s := newStore(t)
	name, err := s.Save(fileHeader(t, "dune.png", []byte("png-bytes")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(name))
	assert.NoError(t, s.Remove(""))
}

func TestSaveRejects(t *testing.T) {
	s := newStore(t)
	_, err := s.Save(fileHeader(t, "evil.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, ErrFileType)

	_, err = s.Save(fileHeader(t, "huge.png", bytes.Repeat([]byte("x"), 2<<20)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = s.Save(nil)
	assert.ErrorIs(t, err, ErrEmptyName)
}
