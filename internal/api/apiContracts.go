package api

import "time"

type DocumentStatusResponse struct {
	Id           string         `json:"id" example:"doc_cz109"`
	Name         string         `json:"name" example:"thesis.pdf"`
	Status       string         `json:"status" example:"READY"`
	PageCount    int            `json:"page_count,omitempty" example:"12"`
	ChunkCount   int            `json:"chunk_count,omitempty" example:"40"`
	Error        *DocumentError `json:"error,omitempty"`
	UploadedTime time.Time      `json:"uploaded_time"`
	IngestedTime time.Time      `json:"ingested_time,omitempty"`
}

type DocumentError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"document contains no extractable text"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type UploadResponse struct {
	DocumentId string `json:"document_id" example:"doc_cz109"`
	Filename   string `json:"filename" example:"thesis.pdf"`
	StatusURL  string `json:"status_url" example:"documents/doc_cz109"`
}

type ChatResponse struct {
	Answer    string        `json:"answer"`
	RateLimit RateLimitInfo `json:"rate_limit"`
}

type RateLimitInfo struct {
	QuestionsRemaining int       `json:"questions_remaining" example:"39"`
	ResetTime          time.Time `json:"reset_time"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"document not found"`
}

type RateLimitResponse struct {
	Error     string        `json:"error" example:"rate limit exceeded"`
	RateLimit RateLimitInfo `json:"rate_limit"`
}

// requests---------------------

type ChatRequest struct {
	DocumentId string `json:"document_id" validate:"required"`
	Question   string `json:"question" validate:"required"`
}
