// Package api defines the wire contract between the upload server and its
// clients: the per-file outcome and the batch response envelope.
package api

import (
	"encoding/json"
	"errors"
)

// ErrMalformedOutcome is returned when a decoded outcome carries neither a
// success nor a failure payload, or both.
var ErrMalformedOutcome = errors.New("malformed upload outcome")

// Stored is the success payload of an outcome.
type Stored struct {
	StorageKey string
	URL        string
}

// FileUploadOutcome is the terminal result of one file. It is a tagged
// union: exactly one of Stored and Failure reports ok. Build values with
// Succeeded or Failed; the zero value is neither and is rejected by
// MarshalJSON.
type FileUploadOutcome struct {
	OriginalName string
	Size         int64
	DeclaredType string

	stored  *Stored
	failure string
	failed  bool
}

// Succeeded builds a success outcome.
func Succeeded(name string, size int64, declaredType, storageKey, url string) FileUploadOutcome {
	return FileUploadOutcome{
		OriginalName: name,
		Size:         size,
		DeclaredType: declaredType,
		stored:       &Stored{StorageKey: storageKey, URL: url},
	}
}

// Failed builds a failure outcome. An empty message is replaced with a
// generic one so a failure is never silent.
func Failed(name string, size int64, declaredType, message string) FileUploadOutcome {
	if message == "" {
		message = "Failed to upload file"
	}
	return FileUploadOutcome{
		OriginalName: name,
		Size:         size,
		DeclaredType: declaredType,
		failure:      message,
		failed:       true,
	}
}

// Stored returns the success payload.
func (o FileUploadOutcome) Stored() (Stored, bool) {
	if o.stored == nil {
		return Stored{}, false
	}
	return *o.stored, true
}

// Failure returns the failure message.
func (o FileUploadOutcome) Failure() (string, bool) {
	return o.failure, o.failed
}

// OK reports whether the outcome is a success.
func (o FileUploadOutcome) OK() bool { return o.stored != nil }

// wireOutcome is the JSON shape; success and failure share one object and
// differ by which fields are present.
type wireOutcome struct {
	OriginalName string  `json:"originalName"`
	Size         *int64  `json:"size,omitempty"`
	Type         *string `json:"type,omitempty"`
	S3Key        string  `json:"s3Key,omitempty"`
	URL          string  `json:"url,omitempty"`
	Error        string  `json:"error,omitempty"`
}

func (o FileUploadOutcome) MarshalJSON() ([]byte, error) {
	switch {
	case o.stored != nil && !o.failed:
		size, typ := o.Size, o.DeclaredType
		return json.Marshal(wireOutcome{
			OriginalName: o.OriginalName,
			Size:         &size,
			Type:         &typ,
			S3Key:        o.stored.StorageKey,
			URL:          o.stored.URL,
		})
	case o.failed && o.stored == nil:
		return json.Marshal(wireOutcome{OriginalName: o.OriginalName, Error: o.failure})
	default:
		return nil, ErrMalformedOutcome
	}
}

func (o *FileUploadOutcome) UnmarshalJSON(b []byte) error {
	var w wireOutcome
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	hasFailure := w.Error != ""
	hasSuccess := w.URL != ""
	if hasFailure == hasSuccess {
		return ErrMalformedOutcome
	}

	var size int64
	if w.Size != nil {
		size = *w.Size
	}
	var typ string
	if w.Type != nil {
		typ = *w.Type
	}

	if hasFailure {
		*o = Failed(w.OriginalName, size, typ, w.Error)
		return nil
	}
	*o = Succeeded(w.OriginalName, size, typ, w.S3Key, w.URL)
	return nil
}

// BatchResult is index-correlated to the submitted file sequence.
type BatchResult []FileUploadOutcome

// Counts returns how many outcomes succeeded and failed.
func (b BatchResult) Counts() (succeeded, failed int) {
	for _, o := range b {
		if o.OK() {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// UploadResponse is the body of a processed POST /api/upload.
type UploadResponse struct {
	Message string      `json:"message"`
	Results BatchResult `json:"results"`
}

// ErrorResponse is the body of a request-level failure.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
