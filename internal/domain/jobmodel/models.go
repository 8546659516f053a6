package jobmodel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string
type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	QueryInit        InternalStatus = "Init"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VectorSearch     InternalStatus = "VectorSearch"
	LLMCall          InternalStatus = "LLM"

	IngestReceived   InternalStatus = "IngestReceived"
	IngestExtracting InternalStatus = "IngestExtracting"
	IngestChunking   InternalStatus = "IngestChunking"
	IngestEmbedding  InternalStatus = "IngestEmbedding"
	IngestPersisting InternalStatus = "IngestPersisting"

	Error    InternalStatus = "Error"
	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id             string         `json:"id"`
	ConversationId string         `json:"conversation_id"`
	OwnerId        string         `json:"owner_id"`
	TraceId        string         `json:"trace_id"`
	JobType        JobType        `json:"job_type"`
	JobPayload     JobPayload     `json:"job_payload"`
	Error          JobError       `json:"error,omitempty"`
	CreatedTime    time.Time      `json:"created_time"`
	EndTime        time.Time      `json:"end_time,omitempty"`
	Status         JobStatus      `json:"status"`
	CurrentStep    InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestPath     string `json:"ingest_path,omitempty"`
	ChunkCount     int    `json:"chunk_count,omitempty"`
	InsertedCount  int    `json:"inserted_count,omitempty"`
	DegradedCount  int    `json:"degraded_count,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
