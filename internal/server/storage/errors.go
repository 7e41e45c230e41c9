package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// Operation names carried by StorageError.
const (
	OpWrite   = "write"
	OpPresign = "presign"
	OpPing    = "ping"
)

var (
	ErrInvalidKey     = errors.New("invalid object key")
	ErrObjectTooLarge = errors.New("object exceeds storage limit")
	ErrInvalidTTL     = errors.New("presign ttl must be positive")
	ErrInvalidAccess  = errors.New("unknown access mode")
	ErrBucketNotFound = errors.New("bucket not found")
)

// StorageError is returned by every Gateway method. It records the
// operation and object it concerns and wraps the backend error.
type StorageError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func newStorageError(op, bucket, key string, err error) *StorageError {
	return &StorageError{Op: op, Bucket: bucket, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("storage.%s %s: %v", e.Op, e.Bucket, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Message is a short human-readable reason suitable for an upload outcome.
// It never includes bucket names or credentials.
func (e *StorageError) Message() string {
	var apiErr smithy.APIError
	var minioErr minio.ErrorResponse
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return fmt.Sprintf("storage %s timed out", e.Op)
	case errors.Is(e.Err, context.Canceled):
		return fmt.Sprintf("storage %s cancelled", e.Op)
	case errors.Is(e.Err, ErrObjectTooLarge), errors.Is(e.Err, ErrInvalidKey),
		errors.Is(e.Err, ErrInvalidTTL), errors.Is(e.Err, ErrInvalidAccess):
		return e.Err.Error()
	case errors.As(e.Err, &apiErr):
		msg := apiErr.ErrorMessage()
		if msg == "" {
			msg = apiErr.ErrorCode()
		}
		return fmt.Sprintf("storage rejected %s: %s", e.Op, msg)
	case errors.As(e.Err, &minioErr) && minioErr.Code != "":
		msg := minioErr.Message
		if msg == "" {
			msg = minioErr.Code
		}
		return fmt.Sprintf("storage rejected %s: %s", e.Op, msg)
	}

	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

// Message extracts the outcome message from any error returned by a gateway,
// falling back to err.Error() for foreign errors.
func Message(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
