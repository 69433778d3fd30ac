package adapter

import (
	"fmt"

	"github.com/akolanti/PDFMentor/internal/api"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/governor"
)

func ToUploadResponse(doc docModel.Document) api.UploadResponse {
	return api.UploadResponse{
		DocumentId: doc.Id,
		Filename:   doc.Name,
		StatusURL:  fmt.Sprintf("documents/%s", doc.Id),
	}
}

func ToDocumentStatusResponse(doc docModel.Document) api.DocumentStatusResponse {

	var errorPtr *api.DocumentError
	if doc.Error.Message != "" || doc.Error.Code != 0 {
		errorPtr = &api.DocumentError{
			Code:    doc.Error.Code,
			Message: doc.Error.Message,
			Retry:   doc.Error.Retry,
		}
	}

	return api.DocumentStatusResponse{
		Id:           doc.Id,
		Name:         doc.Name,
		Status:       string(doc.Status),
		PageCount:    doc.PageCount,
		ChunkCount:   doc.ChunkCount,
		Error:        errorPtr,
		UploadedTime: doc.UploadedTime,
		IngestedTime: doc.IngestedTime,
	}
}

func ToChatResponse(answer string, decision governor.Decision) api.ChatResponse {
	return api.ChatResponse{
		Answer: answer,
		RateLimit: api.RateLimitInfo{
			QuestionsRemaining: decision.Remaining,
			ResetTime:          decision.ResetAt,
		},
	}
}

func ToRateLimitInfo(decision governor.Decision) api.RateLimitInfo {
	return api.RateLimitInfo{
		QuestionsRemaining: decision.Remaining,
		ResetTime:          decision.ResetAt,
	}
}
