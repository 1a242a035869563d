package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/taskforge/taskforge/internal/model"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

type ProjectRepository interface {
	Create(project *model.Project) error
	List() ([]*model.Project, error)
	ByID(id int64) (*model.Project, error)
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	query := `INSERT INTO projects (name, created_at) VALUES ($1, $2)`

	res, err := r.db.Exec(query, project.Name, project.CreatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	return nil
}

func (r *projectRepository) List() ([]*model.Project, error) {
	var projects []*model.Project
	query := `SELECT * FROM projects ORDER BY created_at DESC`

	err := r.db.Select(&projects, query)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) ByID(id int64) (*model.Project, error) {
	project := &model.Project{}
	query := `SELECT * FROM projects WHERE id = $1`

	err := r.db.Get(project, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}

	return project, err
}
