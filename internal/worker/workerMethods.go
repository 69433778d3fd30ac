package worker

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/internal/metrics"
)

func executeJob(ingestJob docModel.IngestJob) {
	start := time.Now()
	status := docModel.StatusReady
	defer func() {
		// Record total time at the end
		metrics.CaptureIngestMetrics(string(status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, ingestJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 5*time.Minute)
	defer cancel()
	logger.With("trace Id ", ingestJob.TraceId)
	logger.Debug("Processing ingest job:", "document Id:", ingestJob.DocumentId)

	doc, found := _jobService.DocumentStore.GetDocument(ctx, ingestJob.DocumentId)
	if !found {
		doc = docModel.Document{
			Id:           ingestJob.DocumentId,
			Name:         ingestJob.DocumentName,
			TraceId:      ingestJob.TraceId,
			UploadedTime: start,
		}
	}
	saveDocumentState(ctx, doc, docModel.StatusProcessing)

	outcome, err := _pipeline.ProcessDocument(ctx, ingestJob)
	if err != nil {
		logger.Error("Ingestion failed", "document Id:", ingestJob.DocumentId, "err", err)
		status = docModel.StatusError
		doc.Error = classifyIngestError(err)
		saveDocumentState(ctx, doc, docModel.StatusError)
		return
	}

	doc.PageCount = outcome.PageCount
	doc.ChunkCount = outcome.ChunkCount
	doc.IngestedTime = time.Now()
	doc.Error = docModel.DocError{}
	saveDocumentState(ctx, doc, docModel.StatusReady)
	logger.Info("Document ingested", "document Id:", ingestJob.DocumentId, "chunks", outcome.ChunkCount)
}

func classifyIngestError(err error) docModel.DocError {
	switch {
	case errors.Is(err, faults.ErrInvalidInput):
		return docModel.DocError{Code: http.StatusBadRequest, Message: err.Error(), Retry: false}
	case errors.Is(err, faults.ErrUpstream):
		return docModel.DocError{Code: http.StatusBadGateway, Message: err.Error(), Retry: true}
	default:
		return docModel.DocError{Code: http.StatusInternalServerError, Message: err.Error(), Retry: true}
	}
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveDocumentState(ctx context.Context, doc docModel.Document, status docModel.IngestStatus) {
	doc.Status = status
	if err := _jobService.DocumentStore.SaveDocument(ctx, doc); err != nil {
		logger.Error("Failed to update document status in Redis", "err", err)
	}
}
