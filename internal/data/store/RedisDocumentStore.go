package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/data/redisStore"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisDocumentStore returns nil when Redis is offline so main can
// fall back to the in-memory registry.
func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, doc.Id, data, config.RedisDocumentStoreTTL)
	if err == nil {
		log.Debug("Saved document record")
	}
	return err
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (docModel.Document, bool) {
	var doc docModel.Document
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", id)

	val, err := s.store.Get(ctx, id)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		log.Error("Error reading document record", "error", err)
		return doc, false
	}

	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		log.Error("Error decoding document record", "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) {
	if err := s.store.Del(ctx, id); err != nil {
		s.logger.Error("Error deleting document record", "documentId", id, "error", err)
		return
	}
	s.logger.Debug("Document record deleted", "documentId", id)
}

// TestDocumentStore builds the store over a miniredis-backed client.
func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
