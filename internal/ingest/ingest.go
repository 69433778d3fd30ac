// Package ingest turns an uploaded document into a saved vector
// index: extract text, chunk it, embed the chunks, persist the
// artifact pair. It runs on the worker pool, one job per document.
package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/akolanti/PDFMentor/internal/chunker"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/internal/rag/embedding"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

// Processor is what the worker pool drives. Pipeline is the only
// production implementation.
type Processor interface {
	ProcessDocument(ctx context.Context, job docModel.IngestJob) (Outcome, error)
}

type Pipeline struct {
	embedder     embedding.Embedder
	indexes      *vectorindex.Manager
	chunkSize    int
	chunkOverlap int
	logger       *logger_i.Logger
}

func NewPipeline(embedder embedding.Embedder, indexes *vectorindex.Manager, chunkSize int, chunkOverlap int) *Pipeline {
	return &Pipeline{
		embedder:     embedder,
		indexes:      indexes,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger_i.NewLogger("Document Ingestion"),
	}
}

// Outcome reports what the pipeline produced for the registry record.
type Outcome struct {
	PageCount  int
	ChunkCount int
}

// ProcessDocument runs the whole ingestion path for one job. The
// uploaded file is removed afterwards in every case - only the
// artifact pair survives ingestion.
func (p *Pipeline) ProcessDocument(ctx context.Context, job docModel.IngestJob) (Outcome, error) {
	log := p.logger.With("traceId", job.TraceId, "documentId", job.DocumentId)
	defer p.removeUpload(job.FilePath, log)

	pages, err := p.extract(job.FilePath)
	if err != nil {
		return Outcome{}, err
	}
	log.Debug("Extracted document", "pages", len(pages))

	text := assembleText(pages)
	if strings.TrimSpace(text) == "" {
		return Outcome{}, fmt.Errorf("%w: document contains no extractable text", faults.ErrInvalidInput)
	}

	chunks := chunker.Chunk(text, p.chunkSize, p.chunkOverlap)
	if len(chunks) == 0 {
		return Outcome{}, fmt.Errorf("%w: document produced no chunks", faults.ErrInvalidInput)
	}
	log.Debug("Chunked document", "chunks", len(chunks))

	embeddings, err := p.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", faults.ErrUpstream, err)
	}

	if err := p.indexes.Create(ctx, job.DocumentId, chunks, embeddings); err != nil {
		return Outcome{}, err
	}

	log.Info("Document ingested", "pages", len(pages), "chunks", len(chunks))
	return Outcome{PageCount: len(pages), ChunkCount: len(chunks)}, nil
}

func (p *Pipeline) extract(path string) ([]rawPage, error) {
	switch getDocType(path) {
	case typePDF:
		return p.extractPDF(path)
	case typeText:
		return extractPlaintext(path)
	default:
		return nil, fmt.Errorf("%w: unsupported document type %s", faults.ErrInvalidInput, path)
	}
}

// assembleText joins pages with markers so an answer can reference
// where in the document its context came from. The markers travel
// through chunking as opaque text.
func assembleText(pages []rawPage) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, fmt.Sprintf("[Page %d]\n%s", page.Number, page.Content))
	}
	return strings.Join(parts, "\n\n")
}

func (p *Pipeline) removeUpload(path string, log *logger_i.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Error("Error removing uploaded file", "path", path, "error", err)
	}
}
