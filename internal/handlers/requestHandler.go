package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/PDFMentor/internal/adapter"
	"github.com/akolanti/PDFMentor/internal/adapter/utils"
	"github.com/akolanti/PDFMentor/internal/api"
	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/metrics"
	"github.com/akolanti/PDFMentor/internal/validators"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

var logRH *logger_i.Logger

const maxQuestionLength = 500

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// UploadDocumentHandler godoc
// @Summary      Upload a PDF for ingestion
// @Description  Receives a PDF via multipart/form-data, stages it on disk, and queues a background ingestion job. Poll the status URL until the document is READY.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The PDF file to upload"
// @Success      202  {object}  api.UploadResponse  "Accepted - ingestion queued"
// @Failure      400  {object}  api.ErrorResponse   "Missing file, wrong type, or file too large"
// @Failure      500  {object}  api.ErrorResponse   "Storage error"
// @Router       /documents [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		maxSize := handlerInstance.settings.MaxFileSize
		if err := r.ParseMultipartForm(maxSize + 4096); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file - send it in the 'document' form field")
			return
		}
		defer fileReader.Close()

		//the magic prefix check wants the first bytes of the payload
		header := make([]byte, 5)
		n, _ := io.ReadFull(fileReader, header)
		header = header[:n]

		if msg := validators.ValidatePDFUpload(fileMetadata.Filename, fileMetadata.Size, header, maxSize); msg != "" {
			logRH.Warn("Rejected upload", "filename", fileMetadata.Filename, "reason", msg)
			WriteErrorResponse(w, http.StatusBadRequest, msg)
			return
		}

		documentId := utils.GetNewUUID()
		safeName := validators.SanitizeFilename(fileMetadata.Filename)
		tempFilePath := filepath.Join(handlerInstance.settings.UploadDir, fmt.Sprintf("%s-%s", documentId, safeName))

		if err := stageUpload(tempFilePath, header, fileReader); err != nil {
			logRH.Error("Could not stage upload", "path", tempFilePath, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
			return
		}

		doc := docModel.Document{
			Id:      documentId,
			Name:    safeName,
			TraceId: r.Context().Value(config.TRACE_ID_KEY).(string),
		}
		QueueIngestJob(doc, tempFilePath)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(doc))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// stageUpload writes the already-consumed header bytes and the rest
// of the upload body to path. A partial file is removed on failure so
// broken uploads don't pile up in the staging directory.
func stageUpload(path string, header []byte, body io.Reader) error {
	destinationFileWriter, err := os.Create(path)
	if err != nil {
		return err
	}
	defer destinationFileWriter.Close()

	if _, err := destinationFileWriter.Write(header); err != nil {
		os.Remove(path)
		return err
	}
	if _, err := io.Copy(destinationFileWriter, body); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// GetDocumentStatusHandler godoc
// @Summary      Get document ingestion status
// @Description  Retrieves the registry record for an uploaded document, including ingestion progress and counts.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentStatusResponse  "Current document record"
// @Failure      404  {object}  api.ErrorResponse           "Document not found"
// @Router       /documents/{id} [get]
func GetDocumentStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, "Document not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentStatusResponse(result))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document record and its on-disk index artifacts. Deleting an unknown document is a no-op.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      204  "Deleted"
// @Failure      500  {object}  api.ErrorResponse  "Could not remove index artifacts"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		if idString == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "Document id is required")
			return
		}

		if err := RemoveDocument(idString, r.Context().Value(config.TRACE_ID_KEY).(string)); err != nil {
			logRH.Error("Error deleting document", "id", idString, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "Could not remove index artifacts")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ChatHandler godoc
// @Summary      Ask a question about a document
// @Description  Embeds the question, retrieves the closest chunks from the document's index, and generates an answer. Counts against the per-client question quota.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "Document ID and question"
// @Success      200      {object}  api.ChatResponse       "Answer with remaining quota"
// @Failure      400      {object}  api.ErrorResponse      "Missing or oversized question"
// @Failure      404      {object}  api.ErrorResponse      "Document not found or not ingested yet"
// @Failure      429      {object}  api.RateLimitResponse  "Question quota exhausted"
// @Failure      502      {object}  api.ErrorResponse      "Embedding or generation provider failed"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateChatRequest(requestData) {
			logRH.Warn("Bad Chat Request: ", "error:", err, "document id:", requestData.DocumentId)
			WriteErrorResponse(w, http.StatusBadRequest, "Bad Request - document_id and a question up to 500 characters are required")
			return
		}

		clientId := request.Context().Value(config.CLIENT_ID_KEY).(string)
		decision, err := handlerInstance.governor.Admit(clientId)
		if err != nil {
			metrics.CountRateLimitRejection()
			logRH.Warn("Question quota exhausted", "client", clientId)
			writeJsonResponse(w, faultHTTPStatus(err), api.RateLimitResponse{
				Error:     "rate limit exceeded - try again later",
				RateLimit: adapter.ToRateLimitInfo(decision),
			})
			return
		}

		result, err := handlerInstance.retrieval.Answer(request.Context(), requestData.DocumentId, requestData.Question)
		if err != nil {
			logRH.Error("Chat request failed", "document id:", requestData.DocumentId, "err", err)
			WriteErrorResponse(w, faultHTTPStatus(err), err.Error())
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(result.Answer, decision))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// RateLimitHandler godoc
// @Summary      Check remaining question quota
// @Description  Reports the client's remaining questions and reset time without consuming a slot.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Success      200  {object}  api.RateLimitInfo  "Remaining quota"
// @Router       /rate-limit [get]
func RateLimitHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		clientId := r.Context().Value(config.CLIENT_ID_KEY).(string)
		decision := handlerInstance.governor.Peek(clientId)
		writeJsonResponse(w, http.StatusOK, adapter.ToRateLimitInfo(decision))
	}
}
