// Package uploads turns a batch of received files into per-file outcomes.
//
// Every file is written to the object store under a fresh key and, when the
// write succeeds, a download URL is presigned for it. A failing file never
// aborts the batch: it is reported in place with a human-readable reason and
// processing moves on to the next one.
package uploads
