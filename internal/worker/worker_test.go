package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/ingest"
	"github.com/akolanti/PDFMentor/internal/job"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

// MockProcessor to track if jobs are executed
type MockProcessor struct {
	ProcessedCount int32
}

func (m *MockProcessor) ProcessDocument(ctx context.Context, j docModel.IngestJob) (ingest.Outcome, error) {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return ingest.Outcome{PageCount: 1, ChunkCount: 1}, nil
}

type MockDocumentStore struct {
	mu        sync.Mutex
	saved     []docModel.Document
	OnSaveDoc func(ctx context.Context, doc docModel.Document) error
}

func (m *MockDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	m.mu.Lock()
	m.saved = append(m.saved, doc)
	m.mu.Unlock()
	if m.OnSaveDoc != nil {
		return m.OnSaveDoc(ctx, doc)
	}
	return nil
}

func (m *MockDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].Id == id {
			return m.saved[i], true
		}
	}
	return docModel.Document{}, false
}

func (m *MockDocumentStore) DeleteDocument(ctx context.Context, id string) {}

func (m *MockDocumentStore) lastStatus() docModel.IngestStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return ""
	}
	return m.saved[len(m.saved)-1].Status
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	docStore := &MockDocumentStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan docModel.IngestJob, 10),
		DispatcherChannel: make(chan bool, 10),
		DocumentStore:     docStore,
	}
	mockProcessor := &MockProcessor{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockProcessor)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes an ingest job", func(t *testing.T) {
		testJob := docModel.IngestJob{DocumentId: "doc-1", DocumentName: "a.pdf", TraceId: "trace-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockProcessor.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
		if status := docStore.lastStatus(); status != docModel.StatusReady {
			t.Errorf("Expected final document status READY, got %q", status)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test. With the floor at
	// zero a single idle worker is above it and must retire.
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0)
	defer atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel:    make(chan docModel.IngestJob),
		DocumentStore: &MockDocumentStore{},
	}
	InitServices(jobSvc, &MockProcessor{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}

func TestWorker_IdleAtFloorStaysAlive(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 1)
	defer atomic.StoreInt64(&minWorkerCount, config.MinWorkerCount)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel:    make(chan docModel.IngestJob),
		DocumentStore: &MockDocumentStore{},
	}
	InitServices(jobSvc, &MockProcessor{})

	wg := &sync.WaitGroup{}
	workerWaitGroup = wg
	stopWorkerChannel = make(chan bool)

	// The last worker is the floor of the pool - idling must not
	// retire it or nothing would drain the queue.
	createWorker()
	time.Sleep(config.IdleWorkerTimeout + 100*time.Millisecond)

	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 1 {
		t.Errorf("Assertion Failed: The floor worker should survive idling, but count is %d", count)
	}

	close(stopWorkerChannel)
	wg.Wait()
}
