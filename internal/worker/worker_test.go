package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/job"
	"github.com/rizkyfm/docchat/pkg/logx"
)

// MockRagService tracks if jobs are executed
type MockRagService struct {
	ProcessedCount int32
	LastJobType    atomic.Value
}

func (m *MockRagService) ProcessChatTurn(ctx context.Context, j jobmodel.Job) jobmodel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	m.LastJobType.Store(jobmodel.JobTypeQuery)
	return j
}

func (m *MockRagService) IngestDocument(ctx context.Context, j jobmodel.Job) jobmodel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	m.LastJobType.Store(jobmodel.JobTypeIngest)
	return j
}

type MockJobStore struct {
	mu     sync.Mutex
	states []jobmodel.JobStatus
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobmodel.Job, bool) {
	return jobmodel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobmodel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = append(m.states, j.Status)
	return nil
}

func (m *MockJobStore) States() []jobmodel.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]jobmodel.JobStatus, len(m.states))
	copy(out, m.states)
	return out
}

func TestWorkerPool_Flow(t *testing.T) {
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobmodel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockRag := &MockRagService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobmodel.Job{Id: "test-1", JobType: jobmodel.JobTypeQuery}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockRag.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}

		// Running first, Complete last.
		states := jobStore.States()
		if len(states) < 2 || states[0] != jobmodel.JobStatusRunning || states[len(states)-1] != jobmodel.JobStatusComplete {
			t.Errorf("unexpected state transitions: %v", states)
		}
	})

	t.Run("Ingest job routes to ingestion", func(t *testing.T) {
		jobSvc.JobChannel <- jobmodel.Job{Id: "test-2", JobType: jobmodel.JobTypeIngest}

		time.Sleep(50 * time.Millisecond)

		if got := mockRag.LastJobType.Load(); got != jobmodel.JobTypeIngest {
			t.Errorf("job type routed as %v, want Ingest", got)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	logger = logx.NewLogger("test_worker_pool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobmodel.Job),
		JobStore:   &MockJobStore{},
	}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// A scaled-up pool with no traffic must shrink back to the floor
	// and stop there, never below it.
	createWorker()
	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout + 200*time.Millisecond)

	count := atomic.LoadInt64(&currentWorkerCount)
	if count != config.MinWorkerCount {
		t.Errorf("worker count after idle timeout is %d, want floor %d", count, config.MinWorkerCount)
	}

	close(stopChan)
}
