package uploads

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/common"
	"github.com/dmitrijs2005/s3drop/internal/logging"
	"github.com/dmitrijs2005/s3drop/internal/server/config"
	"github.com/dmitrijs2005/s3drop/internal/server/storage"
)

// FileInput is one received file. ContentType is the type declared by the
// sender and may be empty. ReadErr is set by the transport when the part
// could not be read; such a file fails without reaching storage.
type FileInput struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
	ReadErr     error
}

type Service struct {
	gateway     storage.Gateway
	observer    Observer
	presignTTL  time.Duration
	timeout     time.Duration
	maxFileSize int64
}

// NewService wires the gateway with the limits from cfg. A nil observer
// discards events.
func NewService(gateway storage.Gateway, cfg *config.Config, observer Observer) *Service {
	if observer == nil {
		observer = NewLogObserver(logging.Nop())
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = storage.DefaultPresignTTL
	}

	return &Service{
		gateway:     gateway,
		observer:    observer,
		presignTTL:  ttl,
		timeout:     cfg.StorageTimeout,
		maxFileSize: cfg.MaxFileSize,
	}
}

// Process handles files sequentially and returns one outcome per file in
// the order received.
func (s *Service) Process(ctx context.Context, files []FileInput) api.BatchResult {
	results := make(api.BatchResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.processOne(ctx, f))
	}
	return results
}

func (s *Service) processOne(ctx context.Context, f FileInput) (out api.FileUploadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.observer.FileFailed(ctx, f, fmt.Sprintf("panic: %v", r))
			out = api.Failed(f.Name, f.Size, f.ContentType, common.ErrorInternal.Error())
		}
	}()

	if f.ReadErr != nil {
		msg := fmt.Sprintf("read file: %v", f.ReadErr)
		s.observer.FileFailed(ctx, f, msg)
		return api.Failed(f.Name, f.Size, f.ContentType, msg)
	}

	if s.maxFileSize > 0 && f.Size > s.maxFileSize {
		msg := fmt.Sprintf("%s (%s > %s)", common.ErrorFileTooLarge, units.BytesSize(float64(f.Size)), units.BytesSize(float64(s.maxFileSize)))
		s.observer.FileFailed(ctx, f, msg)
		return api.Failed(f.Name, f.Size, f.ContentType, msg)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = common.DefaultContentType
	}

	key := StorageKey(f.Name)

	if err := s.gateway.Write(ctx, key, f.Data, contentType); err != nil {
		msg := storage.Message(err)
		s.observer.FileFailed(ctx, f, msg)
		return api.Failed(f.Name, f.Size, f.ContentType, msg)
	}

	url, err := s.gateway.Presign(ctx, key, s.presignTTL, storage.AccessPublicRead)
	if err != nil {
		msg := storage.Message(err)
		s.observer.FileFailed(ctx, f, msg)
		return api.Failed(f.Name, f.Size, f.ContentType, msg)
	}

	s.observer.FileStored(ctx, f, key)
	return api.Succeeded(f.Name, f.Size, f.ContentType, key, url)
}
