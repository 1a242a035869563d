package model

import (
	"time"
)

// Attachment binds one stored object to a task. The object itself lives in
// the bucket under Key; the row only carries the metadata the client reported
// at registration time.
type Attachment struct {
	ID           int64     `db:"id" json:"id"`
	TaskID       int64     `db:"task_id" json:"taskId"`
	Key          string    `db:"key" json:"key"`
	OriginalName string    `db:"original_name" json:"originalName"`
	ContentType  string    `db:"content_type" json:"contentType"`
	Size         int64     `db:"size" json:"size"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
