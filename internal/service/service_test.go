package service

import (
	"context"

	"github.com/taskforge/taskforge/internal/event"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
	"github.com/taskforge/taskforge/internal/storage"
)

// -------- test fakes --------

type fakeProjectRepo struct {
	projects map[int64]*model.Project
	listErr  error
}

func newFakeProjectRepo(projects ...*model.Project) *fakeProjectRepo {
	f := &fakeProjectRepo{projects: map[int64]*model.Project{}}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjectRepo) Create(p *model.Project) error {
	p.ID = int64(len(f.projects) + 1)
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) List() ([]*model.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Project
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectRepo) ByID(id int64) (*model.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return p, nil
}

type fakeTaskRepo struct {
	tasks          map[int64]*model.Task
	attachmentKeys map[int64][]string
	deleted        []int64
	counted        int
}

func newFakeTaskRepo(tasks ...*model.Task) *fakeTaskRepo {
	f := &fakeTaskRepo{
		tasks:          map[int64]*model.Task{},
		attachmentKeys: map[int64][]string{},
	}
	for _, task := range tasks {
		f.tasks[task.ID] = task
	}
	return f
}

func (f *fakeTaskRepo) Create(task *model.Task) error {
	task.ID = int64(len(f.tasks) + 1)
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) List() ([]*model.Task, error) {
	var out []*model.Task
	for _, task := range f.tasks {
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTaskRepo) ByID(id int64) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) SetDone(id int64, done bool) error {
	task, ok := f.tasks[id]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.Done = done
	return nil
}

func (f *fakeTaskRepo) Delete(id int64) error {
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(f.tasks, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTaskRepo) ListByProject(q repository.TaskQuery) ([]*model.Task, error) {
	var out []*model.Task
	for _, task := range f.tasks {
		if task.ProjectID == q.ProjectID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) CountByProject(q repository.TaskQuery) (int, error) {
	return f.counted, nil
}

func (f *fakeTaskRepo) AttachmentKeys(taskID int64) ([]string, error) {
	return f.attachmentKeys[taskID], nil
}

type fakeAttachmentRepo struct {
	atts      map[int64]*model.Attachment
	nextID    int64
	createErr error
	deleteErr error
	deleted   []int64
}

func newFakeAttachmentRepo(atts ...*model.Attachment) *fakeAttachmentRepo {
	f := &fakeAttachmentRepo{atts: map[int64]*model.Attachment{}}
	for _, att := range atts {
		f.atts[att.ID] = att
		if att.ID > f.nextID {
			f.nextID = att.ID
		}
	}
	return f
}

func (f *fakeAttachmentRepo) Create(att *model.Attachment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	att.ID = f.nextID
	f.atts[att.ID] = att
	return nil
}

func (f *fakeAttachmentRepo) ByID(id int64) (*model.Attachment, error) {
	att, ok := f.atts[id]
	if !ok {
		return nil, repository.ErrAttachmentNotFound
	}
	return att, nil
}

func (f *fakeAttachmentRepo) ListByTask(taskID int64) ([]*model.Attachment, error) {
	var out []*model.Attachment
	for _, att := range f.atts {
		if att.TaskID == taskID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttachmentRepo) Delete(id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.atts[id]; !ok {
		return repository.ErrAttachmentNotFound
	}
	delete(f.atts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type presignCall struct {
	key         string
	contentType string
	size        int64
}

type fakeStore struct {
	presigns      []presignCall
	presignErr    error
	downloadErr   error
	deleteOneErr  error
	deleteManyErr error
	deletedOne    []string
	deletedMany   [][]string
}

func (f *fakeStore) PresignUpload(ctx context.Context, key, contentType string, size int64) (*storage.UploadGrant, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.presigns = append(f.presigns, presignCall{key: key, contentType: contentType, size: size})
	return &storage.UploadGrant{
		Bucket:  "taskforge-test",
		Key:     key,
		URL:     "https://example.test/" + key + "?signed=put",
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakeStore) PresignDownload(ctx context.Context, key string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "https://example.test/" + key + "?signed=get", nil
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

func (n *recordingNotifier) names() []string {
	var out []string
	for _, evt := range n.events {
		out = append(out, evt.Name)
	}
	return out
}
