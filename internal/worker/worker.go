package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/job"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/internal/rag"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logx.Logger
	_ragService        rag.Service
	minWorkerCount     = config.MinWorkerCount
)

func InitServices(jobService *job.Service, ragService rag.Service) {
	_jobService = jobService
	_ragService = ragService
	dispatcherChannel = jobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logx.NewLogger("worker_pool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "workerCount", atomic.LoadInt64(&currentWorkerCount))
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return

		case <-time.After(config.IdleWorkerTimeout):
			// Idle too long, retire unless we are the floor.
			if reserveRetirement() {
				finishWorker("Idle worker timeout")
				return
			}
		}
	}
}

// reserveRetirement releases the caller's count slot unless that would
// shrink the pool below the floor. The CAS keeps two workers idling out
// at the same time from both taking the last slot above the floor.
func reserveRetirement() bool {
	for {
		n := atomic.LoadInt64(&currentWorkerCount)
		if n <= minWorkerCount {
			return false
		}
		if atomic.CompareAndSwapInt64(&currentWorkerCount, n, n-1) {
			return true
		}
	}
}
