package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rizkyfm/docchat/internal/adapter"
	"github.com/rizkyfm/docchat/internal/adapter/utils"
	"github.com/rizkyfm/docchat/internal/api"
	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var logRH *logx.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat message and optional conversation ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or conversation ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid context by request", "remoteAddr", request.RemoteAddr)
		return
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the chat handler reader", "error", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {
		logRH.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.ConversationID, "Bad Request")
		return
	}

	processNewJobData(request, w, requestData, "", "")
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceFromContext(r.Context()))

	logRH.Debug("Get status request", "path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF or text file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse      "Bad Request - missing fields or file too large"
// @Failure      500  {object}  api.JobResponse      "Internal Server Error - storage or write error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "error", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	docName := r.FormValue("document_name")
	if docName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	// The extension routes extraction, keep it on the temp name.
	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	if err := saveUpload(tempFilePath, fileReader); err != nil {
		logRH.Error("Couldn't store upload", "path", tempFilePath, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
		return
	}

	processNewJobData(r, w, api.ChatRequest{}, docName, tempFilePath)
}

// GetMessagesHandler godoc
// @Summary      Get recent conversation turns
// @Description  Returns the most recent turns of a conversation, oldest first.
// @Tags         Messaging
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {array}   chatmodel.ChatTurn
// @Failure      404  {object}  api.JobResponse  "Conversation not found"
// @Router       /conversations/{id}/messages [get]
func GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	store := handlerInstance.service.ConversationStore
	if !store.ValidateConversation(r.Context(), id) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Conversation not found")
		return
	}

	history, err := store.History(r.Context(), id, config.HistoryMessageLimit)
	if err != nil {
		logRH.Error("Could not load history", "conversationId", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusOK, history)
}
