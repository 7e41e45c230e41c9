package uploader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/client/client"
	"github.com/dmitrijs2005/s3drop/internal/logging"
)

var (
	ErrFileInFlight    = errors.New("file is being uploaded")
	ErrUnknownFile     = errors.New("unknown file")
	ErrBatchInProgress = errors.New("a batch is already being submitted")
)

// Transport sends one file and returns the server's outcome for it.
// client.HTTPClient implements it.
type Transport interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (api.FileUploadOutcome, error)
}

type Orchestrator struct {
	transport   Transport
	observer    Observer
	results     *ResultStore
	concurrency int

	mu       sync.Mutex
	pending  []PendingFile
	statuses map[string]UploadStatus
	batch    map[string]struct{}
}

// NewOrchestrator returns an empty orchestrator. concurrency <= 0 sends
// every file of a batch at once; a positive value caps requests in flight
// and leaves the queued files Idle until they are sent. A nil observer logs
// nothing.
func NewOrchestrator(t Transport, concurrency int, observer Observer) *Orchestrator {
	if observer == nil {
		observer = NewLogObserver(logging.Nop())
	}
	return &Orchestrator{
		transport:   t,
		observer:    observer,
		results:     &ResultStore{},
		concurrency: concurrency,
		statuses:    make(map[string]UploadStatus),
	}
}

// Add appends files to the pending list with fresh IDs and returns them as
// stored. No validation is done here; the server is the authority.
func (o *Orchestrator) Add(files ...PendingFile) []PendingFile {
	added := make([]PendingFile, 0, len(files))

	o.mu.Lock()
	for _, f := range files {
		f.ID = uuid.NewString()
		o.pending = append(o.pending, f)
		o.statuses[f.ID] = idleStatus()
		added = append(added, f)
	}
	o.mu.Unlock()

	for _, f := range added {
		o.observer.StatusChanged(f, idleStatus())
	}
	return added
}

// Remove drops a pending file that is not part of a running batch.
func (o *Orchestrator) Remove(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	i := slices.IndexFunc(o.pending, func(f PendingFile) bool { return f.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownFile, id)
	}
	if _, ok := o.batch[id]; ok {
		return fmt.Errorf("%w: %s", ErrFileInFlight, o.pending[i].Name)
	}

	o.pending = slices.Delete(o.pending, i, i+1)
	delete(o.statuses, id)
	return nil
}

// Pending returns a copy of the pending list in selection order.
func (o *Orchestrator) Pending() []PendingFile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.pending)
}

func (o *Orchestrator) Status(id string) (UploadStatus, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.statuses[id]
	return s, ok
}

// Statuses returns a copy of all statuses keyed by file ID.
func (o *Orchestrator) Statuses() map[string]UploadStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return maps.Clone(o.statuses)
}

// LastResult returns the outcome of the most recent completed batch.
func (o *Orchestrator) LastResult() (api.BatchResult, bool) {
	return o.results.Last()
}

// SubmitAll uploads every file pending at the time of the call. Requests
// run concurrently; the returned outcomes follow the pending order. Files
// added while the batch runs stay pending for the next one.
func (o *Orchestrator) SubmitAll(ctx context.Context) (api.BatchResult, error) {
	o.mu.Lock()
	if o.batch != nil {
		o.mu.Unlock()
		return nil, ErrBatchInProgress
	}
	batch := slices.Clone(o.pending)
	if len(batch) == 0 {
		o.mu.Unlock()
		return api.BatchResult{}, nil
	}
	o.batch = make(map[string]struct{}, len(batch))
	for _, f := range batch {
		o.batch[f.ID] = struct{}{}
	}
	o.mu.Unlock()

	results := make(api.BatchResult, len(batch))

	// errors are folded into outcomes, so the group never cancels siblings
	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, f := range batch {
		g.Go(func() error {
			o.setStatus(f, uploadingStatus())
			out := o.uploadOne(ctx, f)
			results[i] = out
			o.setStatus(f, terminalStatus(out))
			return nil
		})
	}
	_ = g.Wait()

	o.results.Replace(results)

	o.mu.Lock()
	for id := range o.batch {
		delete(o.statuses, id)
	}
	o.pending = slices.DeleteFunc(o.pending, func(f PendingFile) bool {
		_, ok := o.batch[f.ID]
		return ok
	})
	o.batch = nil
	o.mu.Unlock()

	return results, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, f PendingFile) (out api.FileUploadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = api.Failed(f.Name, f.Size, f.DeclaredType, fmt.Sprintf("upload request failed: %v", r))
		}
	}()

	out, err := o.transport.Upload(ctx, f.Name, f.DeclaredType, f.Data)
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, client.ErrTransport) {
			msg = fmt.Sprintf("%s: %s", client.ErrTransport, msg)
		}
		return api.Failed(f.Name, f.Size, f.DeclaredType, msg)
	}
	return out
}

func (o *Orchestrator) setStatus(f PendingFile, s UploadStatus) {
	o.mu.Lock()
	o.statuses[f.ID] = s
	o.mu.Unlock()
	o.observer.StatusChanged(f, s)
}
