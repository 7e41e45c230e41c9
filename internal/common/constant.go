// Package common contains constants and sentinel errors shared by the
// upload server and the CLI client.
package common

const (
	// UploadPath is the HTTP route accepting multi-file submissions.
	UploadPath = "/api/upload"

	// FilesField is the multipart field name every file part is sent under.
	FilesField = "files"

	// UploadsPrefix is the storage key prefix for uploaded objects.
	UploadsPrefix = "uploads/"

	// DefaultContentType is stored when a file arrives without a declared type.
	DefaultContentType = "application/octet-stream"

	// FilesProcessedMessage is the top-level message of a processed batch.
	FilesProcessedMessage = "Files processed"

	// RequestIDHeaderName carries the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
