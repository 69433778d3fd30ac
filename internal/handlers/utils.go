package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/PDFMentor/internal/api"
	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/domain/faults"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result docModel.Document, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Document ID")
		return docModel.Document{}, false
	}
	return GetDocument(id, traceId)
}

func validateChatRequest(chatReq api.ChatRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if chatReq.DocumentId == "" {
		return false
	}
	question := strings.TrimSpace(chatReq.Question)
	return question != "" && len(question) <= maxQuestionLength
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, error string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: error})
}

// faultHTTPStatus maps the sentinel error taxonomy onto response codes.
func faultHTTPStatus(err error) int {
	switch {
	case errors.Is(err, faults.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, faults.ErrNotFound), errors.Is(err, faults.ErrNotInitialized):
		return http.StatusNotFound
	case errors.Is(err, faults.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, faults.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
