package client

import (
	"context"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrijs2005/s3drop/internal/logging"
)

// leveledLogger routes retryablehttp's own logging into logging.Logger.
type leveledLogger struct {
	log logging.Logger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(context.Background(), msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(context.Background(), msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(context.Background(), msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(context.Background(), msg, keysAndValues...)
}
