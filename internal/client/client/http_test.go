package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/client/config"
	"github.com/dmitrijs2005/s3drop/internal/logging"
)

func newTestClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerURL = url
	cfg.RetryMax = 1
	cfg.RequestTimeout = 5 * time.Second

	c, err := NewHTTPClient(cfg, logging.Nop())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPClient_Upload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		f, fh, err := r.FormFile("files")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "photo.png", fh.Filename)
		assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))

		writeJSON(w, http.StatusOK, api.UploadResponse{
			Message: "Files processed",
			Results: api.BatchResult{api.Succeeded(fh.Filename, int64(len(data)), "image/png", "uploads/1-ab-photo.png", "https://u")},
		})
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL+"/").Upload(context.Background(), "photo.png", "image/png", make([]byte, 2048))
	require.NoError(t, err)

	stored, ok := out.Stored()
	require.True(t, ok)
	assert.Equal(t, int64(2048), out.Size)
	assert.Equal(t, "uploads/1-ab-photo.png", stored.StorageKey)
}

func TestHTTPClient_Upload_ServerFailureOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.UploadResponse{
			Message: "Files processed",
			Results: api.BatchResult{api.Failed("a.txt", 1, "", "storage write timed out")},
		})
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Upload(context.Background(), "a.txt", "", []byte("x"))
	require.NoError(t, err)

	msg, failed := out.Failure()
	require.True(t, failed)
	assert.Equal(t, "storage write timed out", msg)
}

func TestHTTPClient_Upload_BadRequestBecomesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: "Failed to process upload request", Error: "no multipart boundary"})
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Upload(context.Background(), "a.txt", "text/plain", []byte("abc"))
	require.NoError(t, err)

	msg, failed := out.Failure()
	require.True(t, failed)
	assert.Equal(t, "Failed to process upload request: no multipart boundary", msg)
	assert.Equal(t, int64(3), out.Size)
}

func TestHTTPClient_Upload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		f, fh, err := r.FormFile("files")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		writeJSON(w, http.StatusOK, api.UploadResponse{
			Message: "Files processed",
			Results: api.BatchResult{api.Succeeded(fh.Filename, int64(len(data)), "", "k", "u")},
		})
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Upload(context.Background(), "a.txt", "", []byte("resend me"))
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Equal(t, int64(9), out.Size, "body must be replayed on retry")
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPClient_Upload_TimeoutCoversRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerURL = srv.URL
	cfg.RetryMax = 10
	cfg.RequestTimeout = 300 * time.Millisecond
	c, err := NewHTTPClient(cfg, logging.Nop())
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Upload(context.Background(), "a.txt", "text/plain", []byte("a"))

	assert.ErrorIs(t, err, ErrTransport)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Less(t, hits.Load(), int32(11))
}

func TestHTTPClient_Upload_TransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"persistent 5xx", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"two results", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, api.UploadResponse{Results: api.BatchResult{
				api.Failed("a", 0, "", "x"), api.Failed("b", 0, "", "y"),
			}})
		}},
		{"zero results", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, api.UploadResponse{Results: api.BatchResult{}})
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
		{"404 without json", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).Upload(context.Background(), "a", "", []byte("x"))
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestHTTPClient_Upload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	c.httpClient.RetryMax = 0

	_, err := c.Upload(context.Background(), "a", "", []byte("x"))
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewHTTPClient_BadURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	cfg.ServerURL = "ftp://example.com"
	_, err := NewHTTPClient(cfg, logging.Nop())
	assert.Error(t, err)

	cfg.ServerURL = "://nope"
	_, err = NewHTTPClient(cfg, logging.Nop())
	assert.Error(t, err)
}
