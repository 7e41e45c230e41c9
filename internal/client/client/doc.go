// Package client talks to the upload server.
//
// # Overview
//
//  1. HTTPClient sends one file per POST /api/upload request through
//     hashicorp/go-retryablehttp and decodes the single outcome the server
//     returns for it.
//  2. HealthPinger asks the server's grpc.health.v1 endpoint whether it is
//     serving; the CLI uses it for its online/offline indicator.
//
// # Error Handling
//
// Failures to get a usable answer are reported as errors matching
// ErrTransport (network, 5xx after retries, malformed body) or
// ErrUnavailable (health probe). A server-side rejection of the request
// itself (HTTP 400) is not an error: it comes back as a failed outcome
// carrying the server's message.
//
// All operations accept context.Context and honor cancellation.
package client
