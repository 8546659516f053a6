package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/metrics"
)

func executeJob(currentJob jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(currentJob.Status), time.Since(start))
	}()

	timeout := config.QueryJobTimeout
	if currentJob.JobType == jobmodel.JobTypeIngest {
		timeout = config.IngestJobTimeout
	}
	ctxTrace := context.WithValue(context.Background(), config.TraceIDKey, currentJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, timeout)
	defer cancel()

	logger.Debug("Processing job", "jobId", currentJob.Id, "traceId", currentJob.TraceId)
	saveJobState(ctx, currentJob, jobmodel.JobStatusRunning)

	if currentJob.JobType == jobmodel.JobTypeIngest {
		currentJob.CurrentStep = jobmodel.IngestReceived
		currentJob = _ragService.IngestDocument(ctx, currentJob)
	} else {
		currentJob.CurrentStep = jobmodel.QueryInit
		currentJob = _ragService.ProcessChatTurn(ctx, currentJob)
	}

	currentJob.EndTime = time.Now()
	if currentJob.Status == jobmodel.JobStatusError {
		saveJobState(ctx, currentJob, jobmodel.JobStatusError)
		return
	}
	saveJobState(ctx, currentJob, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {
	atomic.AddInt64(&currentWorkerCount, -1)
	finishWorker(reason)
}

// finishWorker does the retirement bookkeeping for a worker whose count
// slot has already been released.
func finishWorker(reason string) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, currentJob jobmodel.Job, jobStatus jobmodel.JobStatus) {
	currentJob.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, currentJob); err != nil {
		logger.Error("Failed to update job status", "jobId", currentJob.Id, "error", err)
	}
}
