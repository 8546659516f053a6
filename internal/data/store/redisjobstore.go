package store

import (
	"context"
	"encoding/json"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/data/redisstore"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/pkg/logx"
)

type RedisJobStore struct {
	store  *redisstore.Store
	logger *logx.Logger
}

func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	inner := redisstore.GetRedisStore(ctx, config.RedisJobStore)
	if inner == nil {
		return nil
	}
	return &RedisJobStore{
		store:  inner,
		logger: logx.NewLogger("job_store"),
	}
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobmodel.Job) error {
	log := s.logger.With("traceId", job.TraceId, "jobId", job.Id)
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, job.Id, data, config.RedisJobStoreTTL)
	if err == nil {
		log.Debug("saved job to redis")
	}
	return err
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobmodel.Job, bool) {
	var job jobmodel.Job
	val, err := s.store.Get(ctx, jobId)
	if err != nil {
		return job, false
	}

	if err := json.Unmarshal([]byte(val), &job); err != nil {
		s.logger.Error("corrupt job entry", "jobId", jobId, "error", err)
		return job, false
	}
	return job, true
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.store.Del(ctx, jobID); err != nil {
		s.logger.Error("error deleting job from redis", "jobId", jobID, "error", err)
		return
	}
	s.logger.Debug("job deleted from redis", "jobId", jobID)
}

func TestJobStore(store *redisstore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  store,
		logger: logx.NewLogger("test_job_store"),
	}
}
