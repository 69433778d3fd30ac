package vectorindex

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

// Manager owns the data directory and hands out per-document indexes.
// All save/load traffic for one document id goes through the same
// mutex, so concurrent requests can never interleave a save with a
// load and observe a torn artifact pair. Different ids don't contend.
//
// Loaded indexes are cached; an index is immutable after creation so
// the cache never goes stale, it is only dropped on delete.
type Manager struct {
	dataDir   string
	dimension int

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	loaded map[string]*Index

	logger *logger_i.Logger
}

func NewManager(dataDir string, dimension int) *Manager {
	return &Manager{
		dataDir:   dataDir,
		dimension: dimension,
		locks:     make(map[string]*sync.Mutex),
		loaded:    make(map[string]*Index),
		logger:    logger_i.NewLogger("VectorIndex Manager"),
	}
}

// Create builds and persists a fresh index for the document.
func (m *Manager) Create(ctx context.Context, documentId string, chunks []string, embeddings [][]float32) error {
	lock := m.lockFor(documentId)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	ix := New(documentId, m.dataDir, m.dimension)
	if err := ix.CreateIndex(chunks, embeddings); err != nil {
		return err
	}
	if err := ix.Save(); err != nil {
		return err
	}

	m.mu.Lock()
	m.loaded[documentId] = ix
	m.mu.Unlock()

	m.logger.Debug("Index created", "documentId", documentId, "vectors", ix.Count())
	return nil
}

// Open returns the cached index for the document or loads it from the
// artifact pair.
func (m *Manager) Open(ctx context.Context, documentId string) (*Index, error) {
	m.mu.Lock()
	if ix, ok := m.loaded[documentId]; ok {
		m.mu.Unlock()
		return ix, nil
	}
	m.mu.Unlock()

	lock := m.lockFor(documentId)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Another request may have loaded it while we waited on the lock.
	m.mu.Lock()
	if ix, ok := m.loaded[documentId]; ok {
		m.mu.Unlock()
		return ix, nil
	}
	m.mu.Unlock()

	ix := New(documentId, m.dataDir, m.dimension)
	if err := ix.Load(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.loaded[documentId] = ix
	m.mu.Unlock()
	return ix, nil
}

// Exists reports whether an index was ever saved for the document.
func (m *Manager) Exists(documentId string) bool {
	m.mu.Lock()
	_, cached := m.loaded[documentId]
	m.mu.Unlock()
	if cached {
		return true
	}
	return Exists(m.dataDir, documentId)
}

// Delete removes both artifacts and drops the cache entry. A missing
// document is not an error - delete is idempotent.
func (m *Manager) Delete(ctx context.Context, documentId string) error {
	lock := m.lockFor(documentId)
	lock.Lock()
	defer lock.Unlock()

	m.mu.Lock()
	delete(m.loaded, documentId)
	m.mu.Unlock()

	for _, path := range []string{IndexPath(m.dataDir, documentId), ChunksPath(m.dataDir, documentId)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	m.logger.Debug("Index deleted", "documentId", documentId)
	return nil
}

// Search is a convenience wrapper: open the document's index and query
// it. NotFound surfaces when the document was never ingested.
func (m *Manager) Search(ctx context.Context, documentId string, query []float32, k int) ([]SearchResult, error) {
	if !m.Exists(documentId) {
		return nil, fmt.Errorf("%w: document %s", faults.ErrNotFound, documentId)
	}
	ix, err := m.Open(ctx, documentId)
	if err != nil {
		return nil, err
	}
	return ix.Search(query, k)
}

func (m *Manager) lockFor(documentId string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[documentId]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[documentId] = lock
	}
	return lock
}
