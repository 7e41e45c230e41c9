// Package uploader owns the client's pending file list and runs batch
// submissions.
//
// Files are added with Add and identified by the ID assigned then. SubmitAll
// sends every pending file in its own request, concurrently, and returns the
// outcomes in the order the files were pending, regardless of which request
// finished first. One failing file never affects its siblings.
//
// The presentation layer reads state through Pending, Status, Statuses and
// LastResult; it never mutates it directly.
package uploader
