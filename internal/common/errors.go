package common

import "errors"

var (
	// ErrorInvalidRequest marks a submission that cannot be parsed at all.
	ErrorInvalidRequest = errors.New("invalid upload request")

	// ErrorFileTooLarge is reported when a file or a whole request exceeds its limit.
	ErrorFileTooLarge = errors.New("file exceeds maximum allowed size")

	// ErrorInternal hides unexpected failures from clients.
	ErrorInternal = errors.New("internal error")

	// ErrorMissingConfig is wrapped by configuration validation.
	ErrorMissingConfig = errors.New("missing required configuration")
)
