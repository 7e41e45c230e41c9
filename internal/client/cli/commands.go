package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"github.com/dmitrijs2005/s3drop/internal/api"
	"github.com/dmitrijs2005/s3drop/internal/client/uploader"
	"github.com/dmitrijs2005/s3drop/internal/filex"
)

var errUsage = errors.New("usage")

// readLocalFile is a test seam for filex.ReadLocalFile.
var readLocalFile = filex.ReadLocalFile

// acceptedTypes mirrors what the upload form suggests. It is advisory only:
// files outside it are still added.
var acceptedTypes = []string{
	"image/*",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func (a *App) getStatus() string {
	s := string(a.Mode())
	if n := len(a.orchestrator.Pending()); n > 0 {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%d pending", n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Add reads each path and appends it to the pending list. A path that
// cannot be read is reported and skipped; the others are still added.
func (a *App) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: add <path>...", errUsage)
	}

	var files []uploader.PendingFile
	for _, p := range paths {
		lf, err := readLocalFile(p)
		if err != nil {
			printlnFn("Skipped:", err)
			continue
		}
		if !isAccepted(lf.Type) {
			printfFn("Note: %s (%s) is not a suggested type; the server decides\n", lf.Name, displayType(lf.Type))
		}
		files = append(files, uploader.PendingFile{
			Name:         lf.Name,
			Size:         lf.Size,
			DeclaredType: lf.Type,
			Data:         lf.Data,
		})
	}

	for _, f := range a.orchestrator.Add(files...) {
		printfFn("Added %s (%s, %s)\n", f.Name, formatSize(f.Size), displayType(f.DeclaredType))
	}
	return nil
}

// Remove drops the pending file at the 1-based position shown by list.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <n>", errUsage)
	}

	pending := a.orchestrator.Pending()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(pending) {
		return fmt.Errorf("no pending file #%s", args[0])
	}

	f := pending[n-1]
	if err := a.orchestrator.Remove(f.ID); err != nil {
		return err
	}
	printlnFn("Removed", f.Name)
	return nil
}

func (a *App) List(ctx context.Context) error {
	pending := a.orchestrator.Pending()
	if len(pending) == 0 {
		printlnFn("No files selected")
		return nil
	}

	statuses := a.orchestrator.Statuses()
	for i, f := range pending {
		printfFn("%d. %s  %s  %s  [%s]\n", i+1, f.Name, formatSize(f.Size), displayType(f.DeclaredType), statuses[f.ID].State)
	}
	return nil
}

// Upload submits every pending file and prints one line per outcome.
func (a *App) Upload(ctx context.Context) error {
	n := len(a.orchestrator.Pending())
	if n == 0 {
		printlnFn("No files selected")
		return nil
	}

	printfFn("Uploading %d file(s)...\n", n)
	res, err := a.orchestrator.SubmitAll(ctx)
	if err != nil {
		return err
	}
	printResults(res)
	return nil
}

func (a *App) Results(ctx context.Context) error {
	res, ok := a.orchestrator.LastResult()
	if !ok {
		printlnFn("No uploads yet")
		return nil
	}
	printResults(res)
	return nil
}

func printResults(res api.BatchResult) {
	for _, out := range res {
		if stored, ok := out.Stored(); ok {
			printfFn("[ok] %s (%s)\n     key: %s\n     url: %s\n", out.OriginalName, formatSize(out.Size), stored.StorageKey, stored.URL)
			continue
		}
		msg, _ := out.Failure()
		printfFn("[failed] %s: %s\n", out.OriginalName, msg)
	}

	ok, failed := res.Counts()
	printfFn("%d succeeded, %d failed\n", ok, failed)
}

func formatSize(n int64) string {
	return units.BytesSize(float64(n))
}

func displayType(t string) string {
	if t == "" {
		return "Unknown type"
	}
	return t
}

func isAccepted(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.TrimSpace(mediaType)
	for _, pattern := range acceptedTypes {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(mediaType, prefix) {
				return true
			}
			continue
		}
		if mediaType == pattern {
			return true
		}
	}
	return false
}
