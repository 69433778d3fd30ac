package docModel

import (
	"context"
	"time"
)

type IngestStatus string

const (
	StatusQueued     IngestStatus = "QUEUED"
	StatusProcessing IngestStatus = "PROCESSING"
	StatusReady      IngestStatus = "READY"
	StatusError      IngestStatus = "Error"
)

// Document is the registry record for one uploaded document. The vector
// index itself lives on disk under the document id - this record only
// tracks metadata and ingestion progress.
type Document struct {
	Id           string       `json:"id"`
	Name         string       `json:"name"`
	TraceId      string       `json:"trace_id"`
	PageCount    int          `json:"page_count"`
	ChunkCount   int          `json:"chunk_count"`
	Status       IngestStatus `json:"status"`
	Error        DocError     `json:"error,omitempty"`
	UploadedTime time.Time    `json:"uploaded_time"`
	IngestedTime time.Time    `json:"ingested_time,omitempty"`
}

type DocError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// IngestJob is what travels over the worker channel.
type IngestJob struct {
	DocumentId   string
	DocumentName string
	FilePath     string
	TraceId      string
}

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	DeleteDocument(ctx context.Context, id string)
}
