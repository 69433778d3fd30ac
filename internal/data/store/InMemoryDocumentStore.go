package store

import (
	"context"
	"sync"

	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

// InMemoryDocumentStore is the fallback registry when Redis is
// offline. Records survive only for the process lifetime.
type InMemoryDocumentStore struct {
	mu     sync.RWMutex
	docs   map[string]docModel.Document
	logger *logger_i.Logger
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docs:   make(map[string]docModel.Document),
		logger: logger_i.NewLogger("InMem DocumentStore"),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Id] = doc
	s.logger.Debug("Saved document record", "documentId", doc.Id)
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, found := s.docs[id]
	return doc, found
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}
