package uploader

import (
	"context"

	"github.com/dmitrijs2005/s3drop/internal/logging"
)

// Observer is told about every status transition. During a batch it is
// called from several goroutines at once.
type Observer interface {
	StatusChanged(f PendingFile, s UploadStatus)
}

// LogObserver writes status transitions to a logger at debug level.
type LogObserver struct {
	log logging.Logger
}

func NewLogObserver(log logging.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) StatusChanged(f PendingFile, s UploadStatus) {
	args := []any{"id", f.ID, "name", f.Name, "state", s.State.String()}
	if s.Message != "" {
		args = append(args, "reason", s.Message)
	}
	o.log.Debug(context.Background(), "upload status changed", args...)
}
