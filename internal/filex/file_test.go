package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestReadLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	data := append(append([]byte{}, pngHeader...), make([]byte, 2048-len(pngHeader))...)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	lf, err := ReadLocalFile(path)
	require.NoError(t, err)

	assert.Equal(t, "photo.png", lf.Name)
	assert.Equal(t, int64(2048), lf.Size)
	assert.Equal(t, "image/png", lf.Type)
	assert.Equal(t, data, lf.Data)
}

func TestReadLocalFile_Errors(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.txt")
	_, err := ReadLocalFile(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, strings.Count(err.Error(), missing))

	_, err = ReadLocalFile(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
		want string
	}{
		{"sniffed png", "x.bin", pngHeader, "image/png"},
		{"pdf", "doc", []byte("%PDF-1.7\n"), "application/pdf"},
		{"unknown content, known extension", "report.pdf", []byte{0xde, 0xad, 0xbe, 0xef}, "application/pdf"},
		{"empty content uses extension", "a.pdf", nil, "application/pdf"},
		{"unknown everything", "blob.zzz", []byte{0xde, 0xad, 0xbe, 0xef}, ""},
		{"plain text, known extension", "page.html", []byte("just words"), "text/html; charset=utf-8"},
		{"plain text, unknown extension", "notes.zzz", []byte("just words\n"), ""},
		{"no extension, unrecognised bytes", "blob", []byte{0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.path, tt.data))
		})
	}
}
