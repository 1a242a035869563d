package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/service"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		ProjectID int64  `json:"projectId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ProjectID < 1 {
		respondError(w, http.StatusBadRequest, "projectId must be a positive integer")
		return
	}

	task, err := h.taskService.Create(r.Context(), req.Title, req.ProjectID)
	if err != nil {
		// a task referencing a missing project is a bad request, not a miss
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Toggle(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.taskService.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := parseTaskQuery(r, projectID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.taskService.ListByProject(q)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func parseTaskQuery(r *http.Request, projectID int64) (repository.TaskQuery, error) {
	q := repository.TaskQuery{
		ProjectID: projectID,
		Status:    model.TaskStatusAll,
		Search:    r.URL.Query().Get("q"),
		Page:      1,
		Limit:     defaultPageLimit,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		switch status {
		case model.TaskStatusAll, model.TaskStatusDone, model.TaskStatusPending:
			q.Status = status
		default:
			return q, errors.New("status must be one of all, done, pending")
		}
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, errors.New("page must be a positive integer")
		}
		q.Page = page
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return q, errors.New("limit must be between 1 and 100")
		}
		q.Limit = limit
	}

	return q, nil
}
