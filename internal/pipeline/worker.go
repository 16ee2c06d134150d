package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/mdwiki/internal/hunk"
	"github.com/dgallion1/mdwiki/internal/importer"
	"github.com/dgallion1/mdwiki/internal/store"
)

// DocumentStore is the subset of the store client the worker writes to.
type DocumentStore interface {
	PutDocument(ctx context.Context, doc *store.Document) error
	FindByHash(ctx context.Context, hash string) (string, bool, error)
}

// Worker processes a single import job.
type Worker struct {
	store       DocumentStore
	log         *slog.Logger
	pdfFallback bool
	backoff     func(attempt int) time.Duration
}

func NewWorker(ds DocumentStore, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		store:       ds,
		log:         log,
		pdfFallback: pdfFallback,
		backoff:     Backoff,
	}
}

// Process imports the uploaded file, segments it into hunks and stores the
// rejoined document.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)
	defer job.releaseFileData()

	// Phase 1: Import
	job.SetStatus(StatusImporting, "importing")
	imp, err := importer.ForFile(job.Filename)
	if err != nil {
		w.fail(log, job, "importing", "unsupported format", err)
		return
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = w.pdfFallback
	}
	tree, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "importing", "import failed", fmt.Errorf("import: %w", err))
		return
	}
	title := job.Title
	if title == "" {
		title = tree.Title
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	hunks := hunk.Segment(tree.Markdown())
	job.SetHunks(len(hunks))
	if len(hunks) == 0 {
		w.fail(log, job, "segmenting", "no content", fmt.Errorf("no importable content"))
		return
	}
	content := hunk.Join(hunks)
	hash := ContentHashHex([]byte(content))
	job.setContentHash(hash)
	log.Info("segmented document", "hunks", len(hunks), "bytes", len(content))

	existing, found, err := w.store.FindByHash(ctx, hash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if found {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.MarkDuplicate(existing)
		return
	}

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	doc := &store.Document{
		ID:          job.DocID,
		Title:       title,
		Content:     content,
		ContentHash: hash,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := w.storeWithRetry(ctx, log, job, doc); err != nil {
		w.fail(log, job, "storing", "store failed", fmt.Errorf("store: %w", err))
		return
	}

	log.Info("import complete", "title", title)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) storeWithRetry(ctx context.Context, log *slog.Logger, job *Job, doc *store.Document) error {
	var lastErr error
	for attempt := range MaxRetries {
		job.IncrStoreAttempts()
		lastErr = w.store.PutDocument(ctx, doc)
		if lastErr == nil || !store.IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase, msg string, err error) {
	log.Error(msg, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}
