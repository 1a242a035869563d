package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/taskforge/taskforge/internal/ctxkeys"
	"github.com/taskforge/taskforge/internal/event"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/storage"
)

const maxSanitizedNameLen = 80

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadPolicy caps upload size and restricts content types. An empty
// AllowedMIME list admits everything.
type UploadPolicy struct {
	MaxBytes    int64
	AllowedMIME []string
}

func (p UploadPolicy) allows(contentType string) bool {
	if len(p.AllowedMIME) == 0 {
		return true
	}
	return slices.Contains(p.AllowedMIME, contentType)
}

// AttachmentService sequences the object store, the metadata store and the
// event notifier for the attachment lifecycle. It owns no state of its own.
//
/// Ordering rule on deletes: storage mutation before metadata mutation. A
// stale metadata row is visible and retryable; an untracked object in the
// bucket is not.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	taskRepo       repository.TaskRepository
	store          storage.ObjectStore
	notifier       event.Notifier
	policy         UploadPolicy
}

func NewAttachmentService(attachmentRepo repository.AttachmentRepository, taskRepo repository.TaskRepository, store storage.ObjectStore, notifier event.Notifier, policy UploadPolicy) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		store:          store,
		notifier:       notifier,
		policy:         policy,
	}
}

type PresignRequest struct {
	TaskID       int64  `json:"taskId"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

type RegisterRequest struct {
	TaskID       int64  `json:"taskId"`
	Key          string `json:"key"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}

// PresignUpload validates the request against the task and the upload policy
// and grants a signed PUT for a freshly derived key. No metadata row is
// created here; the attachment stays unregistered until Register is called,
// and may stay unregistered forever.
func (s *AttachmentService) PresignUpload(ctx context.Context, req PresignRequest) (*storage.UploadGrant, error) {
	task, err := s.taskRepo.ByID(req.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %d: %w", req.TaskID, ErrNotFound)
		}
		return nil, err
	}

	if !s.policy.allows(req.ContentType) {
		return nil, fmt.Errorf("content type %q not allowed: %w", req.ContentType, ErrPolicyViolation)
	}
	if req.Size > s.policy.MaxBytes {
		return nil, fmt.Errorf("size %d exceeds limit %d: %w", req.Size, s.policy.MaxBytes, ErrPolicyViolation)
	}

	key, err := objectKey(task.ProjectID, task.ID, req.OriginalName)
	if err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	grant, err := s.store.PresignUpload(ctx, key, contentType, req.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return grant, nil
}

// Register records the attachment metadata exactly as reported by the caller.
// The object is not re-read to confirm it exists or matches the reported size
// and type.
func (s *AttachmentService) Register(ctx context.Context, req RegisterRequest) (*model.Attachment, error) {
	_, err := s.taskRepo.ByID(req.TaskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %d: %w", req.TaskID, ErrNotFound)
		}
		return nil, err
	}

	att := &model.Attachment{
		TaskID:       req.TaskID,
		Key:          req.Key,
		OriginalName: req.OriginalName,
		ContentType:  req.ContentType,
		Size:         req.Size,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.attachmentRepo.Create(att)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.AttachmentAdded, map[string]any{
		"id":           att.ID,
		"taskId":       att.TaskID,
		"key":          att.Key,
		"originalName": att.OriginalName,
		"size":         att.Size,
		"createdAt":    att.CreatedAt,
	})

	return att, nil
}

func (s *AttachmentService) ListByTask(taskID int64) ([]*model.Attachment, error) {
	_, err := s.taskRepo.ByID(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		return nil, err
	}

	atts, err := s.attachmentRepo.ListByTask(taskID)
	if err != nil {
		return nil, err
	}
	if atts == nil {
		atts = []*model.Attachment{}
	}
	return atts, nil
}

func (s *AttachmentService) PresignDownload(ctx context.Context, key string) (string, error) {
	url, err := s.store.PresignDownload(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return url, nil
}

// Delete removes the stored object first and the metadata row second. If the
// storage delete fails the row stays intact and the whole operation aborts,
// so a retry is always possible.
func (s *AttachmentService) Delete(ctx context.Context, id int64) error {
	att, err := s.attachmentRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return fmt.Errorf("attachment %d: %w", id, ErrNotFound)
		}
		return err
	}

	err = s.store.DeleteOne(ctx, att.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	err = s.attachmentRepo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			// lost a race with a concurrent delete; the storage delete was
			// idempotent, report the row as gone
			return fmt.Errorf("attachment %d: %w", id, ErrNotFound)
		}
		return err
	}

	s.publish(ctx, event.AttachmentDeleted, map[string]any{
		"id":        id,
		"deletedAt": time.Now().UTC(),
	})

	return nil
}

func (s *AttachmentService) publish(ctx context.Context, name string, payload map[string]any) {
	_, _ = s.notifier.Publish(ctx, event.Event{
		Name:          name,
		CorrelationID: ctxkeys.CorrelationID(ctx),
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
	})
}

// objectKey derives a globally unique storage key, namespaced under the
// project and task so the whole subtree can be cleaned up by prefix even
// without the metadata store. The millisecond timestamp plus 8 hex chars of
// randomness keep repeated names from colliding.
func objectKey(projectID, taskID int64, originalName string) (string, error) {
	name := unsafeKeyChars.ReplaceAllString(originalName, "_")
	if len(name) > maxSanitizedNameLen {
		name = name[:maxSanitizedNameLen]
	}

	suffix := make([]byte, 4)
	_, err := rand.Read(suffix)
	if err != nil {
		return "", fmt.Errorf("failed to generate key suffix: %w", err)
	}

	return fmt.Sprintf("projects/%d/tasks/%d/%d_%s_%s",
		projectID, taskID, time.Now().UnixMilli(), hex.EncodeToString(suffix), name), nil
}
