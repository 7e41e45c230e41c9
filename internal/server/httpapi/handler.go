// Package httpapi exposes the upload service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/common"
	"github.com/dmitrijs2005/s3drop/internal/logging"
	"github.com/dmitrijs2005/s3drop/internal/server/uploads"
)

// Processor is the part of uploads.Service the handler needs.
type Processor interface {
	Process(ctx context.Context, files []uploads.FileInput) api.BatchResult
}

// Limits bound what a single upload request may cost the server.
//
//   - MaxMemory: multipart bytes buffered in memory before parts spill to temp files.
//   - MaxFileSize: parts above this are not read; the service rejects them by size.
//   - MaxRequestSize: cap on the whole request body; 0 disables it.
type Limits struct {
	MaxMemory      int64
	MaxFileSize    int64
	MaxRequestSize int64
}

type Handler struct {
	processor Processor
	limits    Limits
	logger    logging.Logger
}

func NewHandler(processor Processor, limits Limits, logger logging.Logger) *Handler {
	return &Handler{processor: processor, limits: limits, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSuffix(r.URL.Path, "/") != common.UploadPath {
		writeError(w, http.StatusNotFound, "Not found", "route not found")
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "method not allowed")
		return
	}
	h.handleUpload(w, r)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.limits.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxRequestSize)
	}

	if err := r.ParseMultipartForm(h.limits.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn(ctx, "upload request too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, "Upload request too large",
				fmt.Sprintf("%s: request body exceeds %d bytes", common.ErrorFileTooLarge, tooLarge.Limit))
			return
		}
		h.logger.Warn(ctx, "unparseable upload request", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to process upload request",
			fmt.Sprintf("%s: %v", common.ErrorInvalidRequest, err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn(ctx, "multipart cleanup failed", "error", err)
		}
	}()

	// Non-file values sent under the same field land in MultipartForm.Value
	// and are ignored.
	headers := r.MultipartForm.File[common.FilesField]
	files := make([]uploads.FileInput, 0, len(headers))
	for _, fh := range headers {
		files = append(files, h.readPart(fh))
	}

	h.logger.Debug(ctx, "processing upload", "files", len(files))

	results := h.processor.Process(ctx, files)
	if results == nil {
		results = api.BatchResult{}
	}
	writeJSON(w, http.StatusOK, api.UploadResponse{
		Message: common.FilesProcessedMessage,
		Results: results,
	})
}

// readPart loads a part into memory. Oversized parts are left unread and
// carry only their size, which the service turns into that file's failure.
func (h *Handler) readPart(fh *multipart.FileHeader) uploads.FileInput {
	in := uploads.FileInput{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}
	if h.limits.MaxFileSize > 0 && fh.Size > h.limits.MaxFileSize {
		return in
	}

	f, err := fh.Open()
	if err != nil {
		in.ReadErr = err
		return in
	}
	defer f.Close()

	in.Data, in.ReadErr = io.ReadAll(f)
	return in
}

func writeError(w http.ResponseWriter, status int, msg string, detail string) {
	writeJSON(w, status, api.ErrorResponse{Message: msg, Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
