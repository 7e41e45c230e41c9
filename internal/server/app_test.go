package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/server/config"
	"github.com/dmitrijs2005/s3drop/internal/server/storage"
)

type memGateway struct {
	objects map[string][]byte
}

func (g *memGateway) Write(ctx context.Context, key string, data []byte, contentType string) error {
	g.objects[key] = data
	return nil
}

func (g *memGateway) Presign(ctx context.Context, key string, ttl time.Duration, access storage.Access) (string, error) {
	return "https://mem.test/" + key, nil
}

func (g *memGateway) Ping(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func withGateway(t *testing.T, gw storage.Gateway, err error) {
	t.Helper()
	orig := newGateway
	t.Cleanup(func() { newGateway = orig })
	newGateway = func(ctx context.Context, cfg *config.Config) (storage.Gateway, error) {
		return gw, err
	}
}

func TestNewApp_GatewayError(t *testing.T) {
	withGateway(t, nil, errors.New("bad endpoint"))

	_, err := NewApp(context.Background(), testConfig())
	assert.ErrorContains(t, err, "storage init error: bad endpoint")
}

func TestApp_HandlerEndToEnd(t *testing.T) {
	gw := &memGateway{objects: map[string][]byte{}}
	withGateway(t, gw, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	w, err := mw.CreateFormFile("files", "photo.png")
	require.NoError(t, err)
	_, err = w.Write(make([]byte, 2048))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)

	stored, ok := resp.Results[0].Stored()
	require.True(t, ok)
	assert.Equal(t, int64(2048), resp.Results[0].Size)
	assert.Len(t, gw.objects[stored.StorageKey], 2048)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	withGateway(t, &memGateway{objects: map[string][]byte{}}, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}
