package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rizkyfm/docchat/internal/data/redisstore"
	"github.com/rizkyfm/docchat/internal/data/store"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	jobStore := store.TestJobStore(redisstore.NewTestStore(client))

	ctx := context.Background()
	jobID := "job_abc_123"

	testJob := jobmodel.Job{
		Id:     jobID,
		Status: jobmodel.JobStatusRunning,
		JobPayload: jobmodel.JobPayload{
			Question: "How do I mock Redis?",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisstore.NewTestStore(client))

	ctx := context.Background()
	job := jobmodel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}
