package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rizkyfm/docchat/internal/adapter"
	"github.com/rizkyfm/docchat/internal/adapter/utils"
	"github.com/rizkyfm/docchat/internal/api"
	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Too late for a clean status code, just log it.
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateId(id string, traceId string) (result jobmodel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobmodel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, errMessage string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, errMessage, httpCode))
}

func traceFromContext(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TraceIDKey).(string); ok {
		return trace
	}
	return ""
}

// ownerFromContext returns the authenticated caller's identity. The auth
// middleware guarantees it is present on every protected route.
func ownerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(config.UserIDKey).(string); ok {
		return owner
	}
	return ""
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// saveUpload writes the upload to path. A failed or aborted write removes
// the partial file, otherwise no job is ever queued for it and nothing
// would clean it up.
func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logRH.Error("Couldn't remove partial upload", "path", path, "error", rmErr)
		}
		return copyErr
	}
	return nil
}

func processNewJobData(request *http.Request, w http.ResponseWriter, requestData api.ChatRequest, docName string, docPath string) {
	conversationID := ""
	message := ""
	isNewConversation := false

	//if documentName is empty then it's a chat request
	isChatRequest := docName == "" && docPath == ""

	if isChatRequest {
		conversationID = requestData.ConversationID
		if conversationID == "" {
			conversationID = utils.GetNewUUID()
			logRH.Debug("New conversation request", "conversationID", conversationID)
			isNewConversation = true
		}
		message = requestData.Message
	}

	newJob := newJobData{
		id:                utils.GetNewUUID(),
		conversationId:    conversationID,
		ownerId:           ownerFromContext(request.Context()),
		message:           message,
		isNewConversation: isNewConversation,
		traceId:           traceFromContext(request.Context()),
		documentName:      docName,
		documentSource:    docPath,
		isDocumentIngest:  !isChatRequest,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
