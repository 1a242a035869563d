package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge/internal/model"
)

func TestAttachmentCreateAndByID(t *testing.T) {
	database := newTestDB(t)
	project := seedProject(t, database, "p")
	task := seedTask(t, database, project.ID, "t", time.Now().UTC())
	repo := NewAttachmentRepository(database)

	att := seedAttachment(t, database, task.ID, "projects/1/tasks/1/1700000000000_ab12cd34_report.pdf", time.Now().UTC())
	require.NotZero(t, att.ID)

	got, err := repo.ByID(att.ID)
	require.NoError(t, err)
	assert.Equal(t, att.Key, got.Key)
	assert.Equal(t, "report.pdf", got.OriginalName)
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, int64(1024), got.Size)
}

func TestAttachmentByIDNotFound(t *testing.T) {
	database := newTestDB(t)
	repo := NewAttachmentRepository(database)

	_, err := repo.ByID(42)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestAttachmentKeyUniqueConstraint(t *testing.T) {
	database := newTestDB(t)
	project := seedProject(t, database, "p")
	task := seedTask(t, database, project.ID, "t", time.Now().UTC())
	repo := NewAttachmentRepository(database)

	seedAttachment(t, database, task.ID, "dup-key", time.Now().UTC())

	dup := seedTask(t, database, project.ID, "t2", time.Now().UTC())
	err := repo.Create(&model.Attachment{
		TaskID:       dup.ID,
		Key:          "dup-key",
		OriginalName: "other.pdf",
		ContentType:  "application/pdf",
		Size:         1,
		CreatedAt:    time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestAttachmentListByTaskOrder(t *testing.T) {
	database := newTestDB(t)
	project := seedProject(t, database, "p")
	task := seedTask(t, database, project.ID, "t", time.Now().UTC())
	repo := NewAttachmentRepository(database)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	seedAttachment(t, database, task.ID, "old", base)
	seedAttachment(t, database, task.ID, "new", base.Add(time.Hour))

	atts, err := repo.ListByTask(task.ID)
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "new", atts[0].Key)
	assert.Equal(t, "old", atts[1].Key)
}

func TestAttachmentDelete(t *testing.T) {
	database := newTestDB(t)
	project := seedProject(t, database, "p")
	task := seedTask(t, database, project.ID, "t", time.Now().UTC())
	repo := NewAttachmentRepository(database)

	att := seedAttachment(t, database, task.ID, "k", time.Now().UTC())

	require.NoError(t, repo.Delete(att.ID))
	_, err := repo.ByID(att.ID)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	// second delete of the same id reports not found, not success
	assert.ErrorIs(t, repo.Delete(att.ID), ErrAttachmentNotFound)
}
