// Package api holds the request and response shapes of the HTTP surface.
package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id             string            `json:"id" example:"job_cz109"`
	ConversationId string            `json:"conversation_id,omitempty" example:"conv_550"`
	Result         Result            `json:"result"`
	Error          *JobOutgoingError `json:"error,omitempty"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type ChatResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type IngestResponse struct {
	FileName      string `json:"file_name"`
	ChunkCount    int    `json:"chunk_count"`
	InsertedCount int    `json:"inserted_count"`
	DegradedCount int    `json:"degraded_count,omitempty"`
}

type Result struct {
	Status         string          `json:"status"`
	ChatResponse   *ChatResponse   `json:"chat_response,omitempty"`
	IngestResponse *IngestResponse `json:"ingest_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversationID,omitempty"`
}

type PromptRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}
