package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/governor"
	"github.com/akolanti/PDFMentor/internal/job"
	"github.com/akolanti/PDFMentor/internal/metrics"
	"github.com/akolanti/PDFMentor/internal/retrieval"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

var (
	handlerInstance *DocumentHandler //private singleton
	once            sync.Once
	logDH           *logger_i.Logger
)

type DocumentHandler struct {
	service   *job.Service
	retrieval retrieval.Service
	governor  *governor.Governor
	indexes   *vectorindex.Manager
	settings  config.Settings
}

type HandlerConfig struct {
	JobService       *job.Service
	RetrievalService retrieval.Service
	Governor         *governor.Governor
	Indexes          *vectorindex.Manager
	Settings         config.Settings
}

func InitDocumentHandler(cfg HandlerConfig) {
	once.Do(func() {
		handlerInstance = &DocumentHandler{
			service:   cfg.JobService,
			retrieval: cfg.RetrievalService,
			governor:  cfg.Governor,
			indexes:   cfg.Indexes,
			settings:  cfg.Settings,
		}

		logDH = logger_i.NewLogger("DocumentHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logDH.Info("Starting document handler")
	})
}

func QueueIngestJob(doc docModel.Document, filePath string) {
	logDH.With("traceId", doc.TraceId, "document id", doc.Id)
	logDH.Info("To queue ingest job")
	handlerInstance.registerDocument(doc)
	handlerInstance.pushToJobChannel(doc, filePath)
}

func GetDocument(id string, traceId string) (result docModel.Document, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.DocumentStore.GetDocument(ctxC, id)
	}
	return result, false
}

func RemoveDocument(id string, traceId string) error {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if err := handlerInstance.indexes.Delete(ctxC, id); err != nil {
		return err
	}
	handlerInstance.service.DocumentStore.DeleteDocument(ctxC, id)
	return nil
}

// private methods
func (h *DocumentHandler) registerDocument(doc docModel.Document) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, doc.TraceId)
	doc.Status = docModel.StatusQueued
	doc.UploadedTime = time.Now()
	if err := h.service.DocumentStore.SaveDocument(ctxC, doc); err != nil {
		logDH.Error("Error registering document", doc.Id, err)
	}
}

func (h *DocumentHandler) pushToJobChannel(doc docModel.Document, filePath string) {

	ingestJob := docModel.IngestJob{
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		FilePath:     filePath,
		TraceId:      doc.TraceId,
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- ingestJob //this is a blocking send to prevent the system from being overwhelmed
	logDH.Info("Queued ingest job")

	//ingestion involves batch embedding calls which might take time
	//so every ingest job signals the dispatcher for an extra worker
	//idle workers retire on their own so the pool shrinks back to 1
	atomic.AddInt64(&h.service.RequestCount, 1)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
