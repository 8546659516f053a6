// Package job holds the shared plumbing between the HTTP handlers and
// the worker pool: the buffered job channel, the dispatcher signal and
// the stores every side needs.
package job

import (
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
)

type Service struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	ConversationStore chatmodel.ConversationStore
}

type ServiceConfig struct {
	JobChannel        chan jobmodel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobmodel.JobStore
	ConversationStore chatmodel.ConversationStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		ConversationStore: cfg.ConversationStore,
	}
}
