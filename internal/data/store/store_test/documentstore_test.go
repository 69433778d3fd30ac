package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/data/redisStore"
	"github.com/akolanti/PDFMentor/internal/data/store"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*store.RedisDocumentStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestDocumentStore(redisStore.NewTestStore(client)), mr
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	docStore, mr := newTestStore(t)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	docID := "doc_abc_123"

	testDoc := docModel.Document{
		Id:           docID,
		Name:         "thesis.pdf",
		PageCount:    12,
		ChunkCount:   40,
		Status:       docModel.StatusReady,
		UploadedTime: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, testDoc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		got, found := docStore.GetDocument(ctx, docID)
		if !found {
			t.Fatal("Document was saved but not found in Redis")
		}
		if got.Name != testDoc.Name || got.ChunkCount != testDoc.ChunkCount || got.Status != testDoc.Status {
			t.Errorf("Data mismatch! Got %+v, want %+v", got, testDoc)
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		if _, found := docStore.GetDocument(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Document", func(t *testing.T) {
		docStore.DeleteDocument(ctx, docID)
		if mr.Exists(docID) {
			t.Error("Document still exists in Redis after delete")
		}
	})
}

func TestInMemoryDocumentStore_FallbackParity(t *testing.T) {
	memStore := store.InitInMemoryDocumentStore()
	ctx := context.Background()

	doc := docModel.Document{Id: "mem-1", Name: "notes.pdf", Status: docModel.StatusQueued}
	if err := memStore.SaveDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	got, found := memStore.GetDocument(ctx, "mem-1")
	if !found || got.Name != "notes.pdf" {
		t.Errorf("got %+v found=%v", got, found)
	}

	memStore.DeleteDocument(ctx, "mem-1")
	if _, found := memStore.GetDocument(ctx, "mem-1"); found {
		t.Error("document still present after delete")
	}
}
