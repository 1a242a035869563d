package handler

import (
	"net/http"
	"strings"

	"github.com/taskforge/taskforge/internal/service"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

func (h *AttachmentHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var req service.PresignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.TaskID < 1 {
		respondError(w, http.StatusBadRequest, "taskId must be a positive integer")
		return
	}
	if strings.TrimSpace(req.OriginalName) == "" {
		respondError(w, http.StatusBadRequest, "originalName is required")
		return
	}
	if req.Size < 0 {
		respondError(w, http.StatusBadRequest, "size must not be negative")
		return
	}

	grant, err := h.attachmentService.PresignUpload(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, grant)
}

func (h *AttachmentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.TaskID < 1 {
		respondError(w, http.StatusBadRequest, "taskId must be a positive integer")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}
	if strings.TrimSpace(req.OriginalName) == "" {
		respondError(w, http.StatusBadRequest, "originalName is required")
		return
	}

	att, err := h.attachmentService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, att)
}

func (h *AttachmentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	atts, err := h.attachmentService.ListByTask(taskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, atts)
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key query parameter is required")
		return
	}

	url, err := h.attachmentService.PresignDownload(r.Context(), key)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.attachmentService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
