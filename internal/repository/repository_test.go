package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge/internal/db"
	"github.com/taskforge/taskforge/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	// a single connection keeps the in-memory database alive and shared
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func seedProject(t *testing.T, database *sqlx.DB, name string) *model.Project {
	t.Helper()

	project := &model.Project{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewProjectRepository(database).Create(project))
	return project
}

func seedTask(t *testing.T, database *sqlx.DB, projectID int64, title string, createdAt time.Time) *model.Task {
	t.Helper()

	task := &model.Task{Title: title, ProjectID: projectID, CreatedAt: createdAt}
	require.NoError(t, NewTaskRepository(database).Create(task))
	return task
}

func seedAttachment(t *testing.T, database *sqlx.DB, taskID int64, key string, createdAt time.Time) *model.Attachment {
	t.Helper()

	att := &model.Attachment{
		TaskID:       taskID,
		Key:          key,
		OriginalName: "report.pdf",
		ContentType:  "application/pdf",
		Size:         1024,
		CreatedAt:    createdAt,
	}
	require.NoError(t, NewAttachmentRepository(database).Create(att))
	return att
}
