package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/taskforge/taskforge/internal/model"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
)

type AttachmentRepository interface {
	Create(att *model.Attachment) error
	ByID(id int64) (*model.Attachment, error)
	ListByTask(taskID int64) ([]*model.Attachment, error)
	Delete(id int64) error
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(att *model.Attachment) error {
	query := `INSERT INTO attachments (task_id, key, original_name, content_type, size, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	res, err := r.db.Exec(query,
		att.TaskID,
		att.Key,
		att.OriginalName,
		att.ContentType,
		att.Size,
		att.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	att.ID = id
	return nil
}

func (r *attachmentRepository) ByID(id int64) (*model.Attachment, error) {
	att := &model.Attachment{}
	query := `SELECT * FROM attachments WHERE id = $1`

	err := r.db.Get(att, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAttachmentNotFound
	}

	return att, err
}

func (r *attachmentRepository) ListByTask(taskID int64) ([]*model.Attachment, error) {
	var atts []*model.Attachment
	query := `SELECT * FROM attachments WHERE task_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&atts, query, taskID)
	if err != nil {
		return nil, err
	}

	return atts, nil
}

func (r *attachmentRepository) Delete(id int64) error {
	query := `DELETE FROM attachments WHERE id = $1`

	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
