package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskforge/taskforge/internal/ctxkeys"
	"github.com/taskforge/taskforge/internal/event"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/storage"
)

type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	store       storage.ObjectStore
	notifier    event.Notifier
}

func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, store storage.ObjectStore, notifier event.Notifier) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		store:       store,
		notifier:    notifier,
	}
}

// TaskPage is one page of a project-scoped task listing.
type TaskPage struct {
	Items []*model.Task `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
}

func (s *TaskService) List() ([]*model.Task, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, title string, projectID int64) (*model.Task, error) {
	_, err := s.projectRepo.ByID(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}

	task := &model.Task{
		Title:     title,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
	err = s.taskRepo.Create(task)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.TaskCreated, map[string]any{
		"id":        task.ID,
		"title":     task.Title,
		"projectId": task.ProjectID,
		"done":      task.Done,
		"createdAt": task.CreatedAt,
	})

	return task, nil
}

func (s *TaskService) Toggle(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.taskRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	task.Done = !task.Done
	err = s.taskRepo.SetDone(id, task.Done)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.publish(ctx, event.TaskUpdated, map[string]any{
		"id":        task.ID,
		"done":      task.Done,
		"projectId": task.ProjectID,
		"updatedAt": time.Now().UTC(),
	})

	return task, nil
}

// Delete removes a task together with its stored attachment objects. The
// storage bulk delete happens first: if any blob cannot be removed the task
// row and its attachment rows stay untouched, so no live object ever loses
// its tracking record. Row-level cascade of the attachment rows is the
// metadata store's job.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	_, err := s.taskRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return err
	}

	keys, err := s.taskRepo.AttachmentKeys(id)
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		err = s.store.DeleteMany(ctx, keys)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	err = s.taskRepo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		return err
	}

	s.publish(ctx, event.TaskDeleted, map[string]any{
		"id":        id,
		"deletedAt": time.Now().UTC(),
	})

	return nil
}

func (s *TaskService) ListByProject(q repository.TaskQuery) (*TaskPage, error) {
	_, err := s.projectRepo.ByID(q.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, fmt.Errorf("project %d: %w", q.ProjectID, ErrNotFound)
		}
		return nil, err
	}

	total, err := s.taskRepo.CountByProject(q)
	if err != nil {
		return nil, err
	}

	pages := (total + q.Limit - 1) / q.Limit
	if pages == 0 {
		pages = 1
	}
	if q.Page > 1 && q.Page > pages {
		return nil, fmt.Errorf("page %d does not exist, pages available: 1-%d: %w", q.Page, pages, ErrNotFound)
	}

	items, err := s.taskRepo.ListByProject(q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Task{}
	}

	return &TaskPage{
		Items: items,
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: pages,
	}, nil
}

func (s *TaskService) publish(ctx context.Context, name string, payload map[string]any) {
	_, _ = s.notifier.Publish(ctx, event.Event{
		Name:          name,
		CorrelationID: ctxkeys.CorrelationID(ctx),
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
	})
}
