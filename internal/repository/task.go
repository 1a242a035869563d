package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/taskforge/taskforge/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskQuery is the explicit filter spec for project-scoped task listings.
// Zero values mean "no filter"; pagination fields must be set by the caller.
type TaskQuery struct {
	ProjectID int64
	Status    string // model.TaskStatusAll, Done or Pending
	Search    string // substring match against title
	Page      int
	Limit     int
}

type TaskRepository interface {
	Create(task *model.Task) error
	List() ([]*model.Task, error)
	ByID(id int64) (*model.Task, error)
	SetDone(id int64, done bool) error
	Delete(id int64) error
	ListByProject(q TaskQuery) ([]*model.Task, error)
	CountByProject(q TaskQuery) (int, error)

	// AttachmentKeys returns the storage keys of all committed attachment
	// rows for the task. Drives cascade deletion.
	AttachmentKeys(taskID int64) ([]string, error)
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	query := `INSERT INTO tasks (title, done, project_id, created_at) VALUES ($1, $2, $3, $4)`

	res, err := r.db.Exec(query, task.Title, task.Done, task.ProjectID, task.CreatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

func (r *taskRepository) List() ([]*model.Task, error) {
	var tasks []*model.Task
	query := `SELECT * FROM tasks ORDER BY created_at DESC`

	err := r.db.Select(&tasks, query)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) ByID(id int64) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT * FROM tasks WHERE id = $1`

	err := r.db.Get(task, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

func (r *taskRepository) SetDone(id int64, done bool) error {
	query := `UPDATE tasks SET done = $1 WHERE id = $2`

	res, err := r.db.Exec(query, done, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`

	res, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// taskFilter renders the WHERE clause for a TaskQuery with positional args.
func taskFilter(q TaskQuery) (string, []any) {
	where := `WHERE project_id = $1`
	args := []any{q.ProjectID}

	switch q.Status {
	case model.TaskStatusDone:
		where += ` AND done = true`
	case model.TaskStatusPending:
		where += ` AND done = false`
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		where += fmt.Sprintf(` AND title LIKE $%d`, len(args))
	}

	return where, args
}

func (r *taskRepository) ListByProject(q TaskQuery) ([]*model.Task, error) {
	where, args := taskFilter(q)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(`SELECT * FROM tasks %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	var tasks []*model.Task
	err := r.db.Select(&tasks, query, args...)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) CountByProject(q TaskQuery) (int, error) {
	where, args := taskFilter(q)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, where)

	var count int
	err := r.db.Get(&count, query, args...)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *taskRepository) AttachmentKeys(taskID int64) ([]string, error) {
	var keys []string
	query := `SELECT key FROM attachments WHERE task_id = $1`

	err := r.db.Select(&keys, query, taskID)
	if err != nil {
		return nil, err
	}

	return keys, nil
}
