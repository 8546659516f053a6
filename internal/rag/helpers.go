package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/internal/rag/llm"
	"github.com/rizkyfm/docchat/internal/rag/retrieval"
	"github.com/rizkyfm/docchat/pkg/logx"
)

func returnOutput(job jobmodel.Job, ans string) jobmodel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobmodel.Complete
	return job
}

func logOutput(job jobmodel.Job, status jobmodel.InternalStatus, log *logx.Logger) jobmodel.Job {
	job.CurrentStep = status
	log.Debug("job step", "currentStep", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobmodel.Job, err error, message string, canRetry bool) jobmodel.Job {
	return s.jobErrorWithCode(job, err, message, http.StatusInternalServerError, "Internal Server Error", canRetry)
}

func (s *service) jobErrorWithCode(job jobmodel.Job, err error, message string, code int, userMessage string, canRetry bool) jobmodel.Job {
	s.logger.Error(message, "jobId", job.Id, "error", err)

	job.Error = jobmodel.JobError{
		Code:    code,
		Message: userMessage,
		Retry:   canRetry,
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	return job
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logx.Logger, job *jobmodel.Job) (retrieval.Block, error) {
	*job = logOutput(*job, jobmodel.VectorSearch, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	return s.retriever.Context(ctx, job.OwnerId, job.JobPayload.Question)
}

func (s *service) executeLLMStep(ctx context.Context, log *logx.Logger, job *jobmodel.Job, messages []llm.Message) (string, error) {
	*job = logOutput(*job, jobmodel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Complete(ctx, messages)
}
