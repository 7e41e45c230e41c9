package uploads

import (
	"context"

	"github.com/dmitrijs2005/s3drop/internal/logging"
)

// Observer receives per-file processing events.
type Observer interface {
	FileStored(ctx context.Context, f FileInput, key string)
	FileFailed(ctx context.Context, f FileInput, reason string)
}

// LogObserver reports events through a structured logger.
type LogObserver struct {
	log logging.Logger
}

func NewLogObserver(log logging.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) FileStored(ctx context.Context, f FileInput, key string) {
	o.log.Info(ctx, "file stored", "name", f.Name, "size", f.Size, "key", key)
}

func (o *LogObserver) FileFailed(ctx context.Context, f FileInput, reason string) {
	o.log.Warn(ctx, "file failed", "name", f.Name, "size", f.Size, "reason", reason)
}
