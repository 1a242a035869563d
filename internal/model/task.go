package model

import (
	"time"
)

const (
	TaskStatusAll     = "all"
	TaskStatusDone    = "done"
	TaskStatusPending = "pending"
)

type Task struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Done      bool      `db:"done" json:"done"`
	ProjectID int64     `db:"project_id" json:"projectId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
