package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rizkyfm/docchat/internal/adapter/utils"
	"github.com/rizkyfm/docchat/internal/api"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	promptStore     chatmodel.PromptStore
	promptStoreOnce sync.Once
	logPH           *logx.Logger
)

func InitPromptHandler(store chatmodel.PromptStore) {
	promptStoreOnce.Do(func() {
		promptStore = store
	})
}

// PostPromptHandler godoc
// @Summary      Create a master prompt
// @Description  Saves a reusable persona instruction for the caller.
// @Tags         Prompts
// @Accept       json
// @Produce      json
// @Param        request  body      api.PromptRequest       true  "Prompt title and content"
// @Success      201      {object}  chatmodel.MasterPrompt
// @Failure      400      {object}  api.JobResponse  "Missing title or content"
// @Router       /prompts [post]
func PostPromptHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	var requestData api.PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil ||
		requestData.Title == "" || requestData.Content == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "title and content are required")
		return
	}

	prompt := chatmodel.MasterPrompt{
		Id:        utils.GetNewUUID(),
		OwnerId:   ownerFromContext(r.Context()),
		Title:     requestData.Title,
		Content:   requestData.Content,
		CreatedAt: time.Now(),
	}
	if err := promptStore.Save(r.Context(), prompt); err != nil {
		logPH.Error("Could not save prompt", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, prompt.Id, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusCreated, prompt)
}

// GetPromptsHandler godoc
// @Summary      List the caller's master prompts
// @Tags         Prompts
// @Produce      json
// @Success      200  {array}  chatmodel.MasterPrompt
// @Router       /prompts [get]
func GetPromptsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	prompts, err := promptStore.List(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		logPH.Error("Could not list prompts", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, prompts)
}

// PinPromptHandler godoc
// @Summary      Pin a master prompt as the active persona
// @Description  Makes the prompt the caller's single pinned persona; any previous pin is released.
// @Tags         Prompts
// @Produce      json
// @Param        id   path      string  true  "Prompt ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  api.JobResponse  "Prompt not found"
// @Router       /prompts/{id}/pin [post]
func PinPromptHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	if err := promptStore.Pin(r.Context(), ownerFromContext(r.Context()), id); err != nil {
		WriteErrorResponse(w, http.StatusNotFound, id, "Prompt not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, map[string]string{"pinned": id})
}
