package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/mdwiki/internal/config"
	"github.com/dgallion1/mdwiki/internal/store"
)

type fakeStore struct {
	mu       sync.Mutex
	docs     map[string]*store.Document
	failures []error // returned by successive PutDocument calls
	puts     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*store.Document)}
}

func (s *fakeStore) PutDocument(_ context.Context, doc *store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		if err != nil {
			return err
		}
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *fakeStore) FindByHash(_ context.Context, hash string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.docs {
		if d.ContentHash == hash {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (s *fakeStore) get(id string) *store.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id]
}

func testWorker(ds DocumentStore) *Worker {
	w := NewWorker(ds, slog.New(slog.DiscardHandler), false)
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func TestWorker_ImportsAndStores(t *testing.T) {
	ds := newFakeStore()
	job := NewJob("notes.txt", "", []byte("First para\nline two\n\n\n\nSecond para\n"))
	testWorker(ds).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Hunks != 2 {
		t.Errorf("expected 2 hunks, got %d", snap.Progress.Hunks)
	}
	doc := ds.get(job.DocID)
	if doc == nil {
		t.Fatal("expected document stored")
	}
	if doc.Content != "First para\nline two\n\nSecond para" {
		t.Errorf("unexpected content %q", doc.Content)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title from filename, got %q", doc.Title)
	}
	if doc.ContentHash != ContentHashHex([]byte(doc.Content)) {
		t.Error("expected content hash over stored content")
	}
	if job.FileData() != nil {
		t.Error("expected upload released after processing")
	}
}

func TestWorker_TitleOverride(t *testing.T) {
	ds := newFakeStore()
	job := NewJob("page.md", "Custom", []byte("# Heading\n\nbody"))
	testWorker(ds).Process(context.Background(), job)
	if doc := ds.get(job.DocID); doc == nil || doc.Title != "Custom" {
		t.Errorf("expected custom title, got %+v", doc)
	}
}

func TestWorker_UnsupportedFormat(t *testing.T) {
	job := NewJob("image.png", "", []byte{1, 2, 3})
	testWorker(newFakeStore()).Process(context.Background(), job)
	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "importing" {
		t.Errorf("expected failure while importing, got %q/%q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Progress.Errors)
	}
}

func TestWorker_EmptyDocumentFails(t *testing.T) {
	job := NewJob("empty.txt", "", []byte("\n  \n"))
	testWorker(newFakeStore()).Process(context.Background(), job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "segmenting" {
		t.Errorf("expected failure while segmenting, got %q/%q", snap.Status, snap.Phase)
	}
}

func TestWorker_DuplicateSkipped(t *testing.T) {
	ds := newFakeStore()
	w := testWorker(ds)
	first := NewJob("a.md", "", []byte("same text"))
	w.Process(context.Background(), first)
	second := NewJob("b.md", "", []byte("same text\n"))
	w.Process(context.Background(), second)

	snap := second.Snapshot()
	if snap.Status != StatusDupSkipped || snap.DuplicateOf != first.DocID {
		t.Errorf("expected duplicate of %q, got %+v", first.DocID, snap)
	}
	if ds.get(second.DocID) != nil {
		t.Error("expected duplicate not stored")
	}
}

func TestWorker_RetriesTransientStoreErrors(t *testing.T) {
	ds := newFakeStore()
	ds.failures = []error{
		&store.RetryableError{StatusCode: 503},
		&store.RetryableError{StatusCode: 429},
	}
	job := NewJob("r.txt", "", []byte("retry me"))
	testWorker(ds).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed after retries, got %q (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.StoreAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", snap.Progress.StoreAttempts)
	}
}

func TestWorker_GivesUpAfterMaxRetries(t *testing.T) {
	ds := newFakeStore()
	for range MaxRetries + 1 {
		ds.failures = append(ds.failures, &store.RetryableError{StatusCode: 500})
	}
	job := NewJob("r.txt", "", []byte("never stored"))
	testWorker(ds).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "storing" {
		t.Errorf("expected failure while storing, got %q/%q", snap.Status, snap.Phase)
	}
	if ds.puts != MaxRetries {
		t.Errorf("expected %d attempts, got %d", MaxRetries, ds.puts)
	}
}

func TestWorker_PermanentStoreErrorNotRetried(t *testing.T) {
	ds := newFakeStore()
	ds.failures = []error{errors.New("status 400: bad")}
	job := NewJob("p.txt", "", []byte("text"))
	testWorker(ds).Process(context.Background(), job)

	if ds.puts != 1 {
		t.Errorf("expected a single attempt, got %d", ds.puts)
	}
	if snap := job.Snapshot(); !strings.Contains(snap.Progress.Errors[0], "status 400") {
		t.Errorf("expected store error recorded, got %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	ds := newFakeStore()
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, ds, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("o.md", "", []byte("# Queued\n\ntext"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected job registered")
	}

	deadline := time.Now().Add(5 * time.Second)
	for job.Snapshot().Status != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %q", job.Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if ds.get(job.DocID) == nil {
		t.Error("expected document stored")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, newFakeStore(), slog.New(slog.DiscardHandler))

	if err := o.Submit(NewJob("a.txt", "", []byte("a"))); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	overflow := NewJob("b.txt", "", []byte("b"))
	if err := o.Submit(overflow); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if overflow.Snapshot().Status != StatusFailed {
		t.Error("expected overflow job marked failed")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
