// Package adapter converts internal job state into the API shapes.
package adapter

import (
	"fmt"
	"time"

	"github.com/rizkyfm/docchat/internal/api"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobmodel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
	}
	if job.JobType == jobmodel.JobTypeIngest {
		result.IngestResponse = toIngestResponse(job.JobPayload)
	} else {
		result.ChatResponse = toChatResponse(job.JobPayload)
	}

	return api.JobResponse{
		Id:             job.Id,
		ConversationId: job.ConversationId,
		StartTime:      job.CreatedTime,
		EndTime:        job.EndTime,
		Error:          errorPtr,
		Result:         result,
	}
}

func toChatResponse(payload jobmodel.JobPayload) *api.ChatResponse {
	if payload.Answer == "" && len(payload.Sources) == 0 {
		return nil
	}
	return &api.ChatResponse{
		Question: payload.Question,
		Answer:   payload.Answer,
		Sources:  payload.Sources,
	}
}

func toIngestResponse(payload jobmodel.JobPayload) *api.IngestResponse {
	if payload.IngestFileName == "" {
		return nil
	}
	return &api.IngestResponse{
		FileName:      payload.IngestFileName,
		ChunkCount:    payload.ChunkCount,
		InsertedCount: payload.InsertedCount,
		DegradedCount: payload.DegradedCount,
	}
}

func BadRequest(id string, errMessage string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: errMessage,
			Retry:   false,
		},
	}
}
