package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge/internal/app"
	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/db"
	"github.com/taskforge/taskforge/internal/event"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/routes"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/storage"
)

// fakeStore satisfies storage.ObjectStore without touching S3.
type fakeStore struct {
	presignErr    error
	deleteOneErr  error
	deleteManyErr error
	deletedOne    []string
	deletedMany   [][]string
}

func (f *fakeStore) PresignUpload(ctx context.Context, key, contentType string, size int64) (*storage.UploadGrant, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	return &storage.UploadGrant{
		Bucket:  "test-bucket",
		Key:     key,
		URL:     "https://test-bucket.s3.amazonaws.com/" + key,
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakeStore) PresignDownload(ctx context.Context, key string) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://test-bucket.s3.amazonaws.com/" + key + "?signed", nil
}

func (f *fakeStore) DeleteOne(ctx context.Context, key string) error {
	if f.deleteOneErr != nil {
		return f.deleteOneErr
	}
	f.deletedOne = append(f.deletedOne, key)
	return nil
}

func (f *fakeStore) DeleteMany(ctx context.Context, keys []string) error {
	if f.deleteManyErr != nil {
		return f.deleteManyErr
	}
	f.deletedMany = append(f.deletedMany, keys)
	return nil
}

type recordingNotifier struct {
	events []event.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, evt event.Event) (event.Result, error) {
	n.events = append(n.events, evt)
	return event.Result{Published: true}, nil
}

type testServer struct {
	handler  http.Handler
	store    *fakeStore
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// a pool would open independent in-memory databases
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	store := &fakeStore{}
	notifier := &recordingNotifier{}

	projectRepo := repository.NewProjectRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	attachmentRepo := repository.NewAttachmentRepository(database)

	cfg := &config.Config{
		AppName:    "taskforge-backend",
		AppEnv:     "test",
		CORSOrigin: "*",
	}

	a := &app.App{
		Cfg:            cfg,
		DB:             database,
		ProjectService: service.NewProjectService(projectRepo),
		TaskService:    service.NewTaskService(taskRepo, projectRepo, store, event.NewSafe(notifier)),
		AttachmentService: service.NewAttachmentService(attachmentRepo, taskRepo, store, event.NewSafe(notifier), service.UploadPolicy{
			MaxBytes:    1024 * 1024,
			AllowedMIME: nil,
		}),
	}

	return &testServer{
		handler:  routes.SetupRoutes(a),
		store:    store,
		notifier: notifier,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func (ts *testServer) createProject(t *testing.T, name string) int64 {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/projects", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &body)
	require.NotZero(t, body.ID)
	return body.ID
}

func (ts *testServer) createTask(t *testing.T, title string, projectID int64) int64 {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/tasks", map[string]any{"title": title, "projectId": projectID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &body)
	require.NotZero(t, body.ID)
	return body.ID
}

func (ts *testServer) registerAttachment(t *testing.T, taskID int64, key string) int64 {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/attachments/register", map[string]any{
		"taskId":       taskID,
		"key":          key,
		"originalName": "report.pdf",
		"contentType":  "application/pdf",
		"size":         1234,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &body)
	require.NotZero(t, body.ID)
	return body.ID
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Error)
	return body.Error
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
