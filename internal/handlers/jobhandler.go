package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rizkyfm/docchat/internal/api"
	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/job"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logx.Logger
)

type JobHandler struct {
	service *job.Service
}

type newJobData struct {
	id                string
	conversationId    string
	ownerId           string
	message           string
	isNewConversation bool
	traceId           string
	isDocumentIngest  bool
	documentName      string
	documentSource    string
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}

		logJH = logx.NewLogger("job_handler")
		logRH = logx.NewLogger("request_handler")
		logPH = logx.NewLogger("prompt_handler")
		logJH.Info("Starting job handler")
	})
}

func CreateNewJob(newJob newJobData) {
	logJH.Info("To create new job", "traceId", newJob.traceId, "jobId", newJob.id)
	if newJob.isNewConversation {
		logJH.Info("Create new conversation")
		handlerInstance.initNewConversation(newJob.conversationId, newJob.ownerId, newJob.traceId)
	}
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobmodel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TraceIDKey, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateChatRequest(chatReq api.ChatRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if chatReq.Message == "" {
		return false
	}
	if chatReq.ConversationID == "" {
		return true
	}
	return handlerInstance.service.ConversationStore.ValidateConversation(context.Background(), chatReq.ConversationID)
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {
	_job := jobmodel.Job{}
	_job.Id = newJob.id
	_job.OwnerId = newJob.ownerId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobmodel.JobStatusQueued

	if newJob.isDocumentIngest {
		_job.CurrentStep = jobmodel.IngestReceived
		_job.JobType = jobmodel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestPath = newJob.documentSource
	} else {
		_job.JobType = jobmodel.JobTypeQuery
		_job.ConversationId = newJob.conversationId
		_job.JobPayload.Question = newJob.message
		_job.CurrentStep = jobmodel.QueryInit
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send so the system cannot be overwhelmed
	logJH.Info("Created new job")

	//a new worker every N requests, and always one for an ingest job:
	//ingestion paces its embedding calls so it holds a worker for a while
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobmodel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		logJH.Debug("Request count", "count", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

func (h *JobHandler) initNewConversation(conversationId string, ownerId string, traceId string) {
	ctxC := context.WithValue(context.Background(), config.TraceIDKey, traceId)
	if err := h.service.ConversationStore.InitConversation(ctxC, conversationId, ownerId); err != nil {
		logJH.Error("Error initiating new conversation", "conversationId", conversationId, "error", err)
		return
	}
}
