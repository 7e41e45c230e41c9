package uploader

import "github.com/dmitrijs2005/s3drop/internal/api"

// PendingFile is a file selected for upload. It is immutable once added.
type PendingFile struct {
	ID           string
	Name         string
	Size         int64
	DeclaredType string
	Data         []byte
}

type State int

const (
	StateIdle State = iota
	StateUploading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadStatus is the per-file state. Outcome is set in both terminal
// states; Message carries the failure reason.
type UploadStatus struct {
	State   State
	Outcome *api.FileUploadOutcome
	Message string
}

func idleStatus() UploadStatus      { return UploadStatus{State: StateIdle} }
func uploadingStatus() UploadStatus { return UploadStatus{State: StateUploading} }

func terminalStatus(out api.FileUploadOutcome) UploadStatus {
	if msg, failed := out.Failure(); failed {
		return UploadStatus{State: StateFailed, Outcome: &out, Message: msg}
	}
	return UploadStatus{State: StateSucceeded, Outcome: &out}
}
