package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/client/config"
	"github.com/dmitrijs2005/s3drop/internal/common"
	"github.com/dmitrijs2005/s3drop/internal/logging"
	"github.com/dmitrijs2005/s3drop/internal/netx"
)

const maxErrorBody = 4 << 10

// HTTPClient uploads files to the server, one request per file.
// It is safe for concurrent use.
type HTTPClient struct {
	httpClient *retryablehttp.Client
	uploadURL  string
	timeout    time.Duration
	logger     logging.Logger
}

func NewHTTPClient(cfg *config.Config, logger logging.Logger) (*HTTPClient, error) {
	base, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", cfg.ServerURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = leveledLogger{log: logger}
	// hand back the last response instead of a generic "giving up" error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPClient{
		httpClient: rc,
		uploadURL:  strings.TrimSuffix(base.String(), "/") + common.UploadPath,
		timeout:    cfg.RequestTimeout,
		logger:     logger.With("module", "http_client"),
	}, nil
}

// Upload sends a single file and returns the server's outcome for it. An
// HTTP 400 becomes a failed outcome with the server's message; anything
// that prevents reading an outcome is an ErrTransport. The configured
// request timeout bounds all attempts together.
func (c *HTTPClient) Upload(ctx context.Context, name, contentType string, data []byte) (api.FileUploadOutcome, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, formType, err := netx.MultipartBody(common.FilesField, netx.FilePart{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return api.FileUploadOutcome{}, fmt.Errorf("%w: encode body: %w", ErrTransport, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return api.FileUploadOutcome{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", formType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return api.FileUploadOutcome{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn(ctx, "close response body", "error", err)
		}
	}(resp.Body)

	c.logger.Debug(ctx, "upload response", "name", name, "status", resp.StatusCode,
		"request_id", resp.Header.Get(common.RequestIDHeaderName))

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeOutcome(resp.Body)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return rejectedOutcome(resp, name, int64(len(data)), contentType)
	default:
		return api.FileUploadOutcome{}, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}
}

func decodeOutcome(r io.Reader) (api.FileUploadOutcome, error) {
	var ur api.UploadResponse
	if err := json.NewDecoder(r).Decode(&ur); err != nil {
		return api.FileUploadOutcome{}, fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	if len(ur.Results) != 1 {
		return api.FileUploadOutcome{}, fmt.Errorf("%w: expected 1 result, got %d", ErrTransport, len(ur.Results))
	}
	return ur.Results[0], nil
}

func rejectedOutcome(resp *http.Response, name string, size int64, contentType string) (api.FileUploadOutcome, error) {
	var er api.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&er); err != nil || er.Message == "" {
		return api.FileUploadOutcome{}, fmt.Errorf("%w: unexpected status %s", ErrTransport, resp.Status)
	}

	msg := er.Message
	if er.Error != "" {
		msg += ": " + er.Error
	}
	return api.Failed(name, size, contentType, msg), nil
}
