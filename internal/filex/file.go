// Package filex reads local files for upload.
package filex

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// genericTypes are mimetype's catch-all results. They say nothing about the
// file, so the extension is preferred over them.
var genericTypes = []string{"application/octet-stream", "text/plain"}

// LocalFile is a file read fully into memory. Type is empty when it could
// not be recognised.
type LocalFile struct {
	Name string
	Size int64
	Type string
	Data []byte
}

// ReadLocalFile reads path and closes it before returning.
func ReadLocalFile(path string) (LocalFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return LocalFile{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return LocalFile{}, err
	}
	if info.IsDir() {
		return LocalFile{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return LocalFile{}, err
	}

	return LocalFile{
		Name: filepath.Base(path),
		Size: int64(len(data)),
		Type: DetectType(path, data),
		Data: data,
	}, nil
}

// DetectType sniffs data with mimetype and falls back to the file
// extension when the content is not recognised. It returns "" when neither
// gives an answer.
func DetectType(path string, data []byte) string {
	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil && !isGeneric(mt) {
			return mt.String()
		}
	}
	return mime.TypeByExtension(filepath.Ext(path))
}

func isGeneric(mt *mimetype.MIME) bool {
	for _, g := range genericTypes {
		if mt.Is(g) {
			return true
		}
	}
	return false
}
