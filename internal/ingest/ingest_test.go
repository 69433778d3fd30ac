package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
)

const testDim = 3

type mockEmbedder struct {
	docsFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, testDim), nil
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if m.docsFunc != nil {
		return m.docsFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, testDim)
	}
	return out, nil
}

func writeUpload(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected docType
	}{
		{"report.pdf", typePDF},
		{"REPORT.PDF", typePDF},
		{"notes.txt", typeText},
		{"doc.docx", typeText},
		{"image.png", typeUnknown},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestAssembleText_PageMarkers(t *testing.T) {
	text := assembleText([]rawPage{
		{Number: 1, Content: "first page"},
		{Number: 3, Content: "third page"},
	})
	if !strings.Contains(text, "[Page 1]\nfirst page") {
		t.Error("missing marker for page 1")
	}
	if !strings.Contains(text, "[Page 3]\nthird page") {
		t.Error("missing marker for skipped-number page")
	}
}

func TestProcessDocument_Success(t *testing.T) {
	dataDir := t.TempDir()
	indexes := vectorindex.NewManager(dataDir, testDim)
	p := NewPipeline(&mockEmbedder{}, indexes, 100, 20)

	path := writeUpload(t, strings.Repeat("Plenty of sentences here. ", 30))
	job := docModel.IngestJob{DocumentId: "doc-1", DocumentName: "upload.txt", FilePath: path}

	outcome, err := p.ProcessDocument(context.Background(), job)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.PageCount != 1 {
		t.Errorf("page count = %d, want 1", outcome.PageCount)
	}
	if outcome.ChunkCount == 0 {
		t.Error("expected chunks")
	}
	if !indexes.Exists("doc-1") {
		t.Error("index not persisted after ingestion")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("uploaded file not cleaned up")
	}
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	indexes := vectorindex.NewManager(t.TempDir(), testDim)
	p := NewPipeline(&mockEmbedder{}, indexes, 100, 20)

	path := writeUpload(t, "   \n  \n ")
	job := docModel.IngestJob{DocumentId: "doc-empty", FilePath: path}

	_, err := p.ProcessDocument(context.Background(), job)
	if !errors.Is(err, faults.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestProcessDocument_EmbedderFailure(t *testing.T) {
	indexes := vectorindex.NewManager(t.TempDir(), testDim)
	embedder := &mockEmbedder{
		docsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("api limit")
		},
	}
	p := NewPipeline(embedder, indexes, 100, 20)

	path := writeUpload(t, "Some real content to embed.")
	job := docModel.IngestJob{DocumentId: "doc-fail", FilePath: path}

	_, err := p.ProcessDocument(context.Background(), job)
	if !errors.Is(err, faults.ErrUpstream) {
		t.Errorf("got %v, want ErrUpstream", err)
	}
	if indexes.Exists("doc-fail") {
		t.Error("index must not exist after failed ingestion")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("uploaded file not cleaned up on failure")
	}
}

func TestProcessDocument_UnsupportedType(t *testing.T) {
	indexes := vectorindex.NewManager(t.TempDir(), testDim)
	p := NewPipeline(&mockEmbedder{}, indexes, 100, 20)

	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := p.ProcessDocument(context.Background(), docModel.IngestJob{DocumentId: "x", FilePath: path})
	if !errors.Is(err, faults.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}
