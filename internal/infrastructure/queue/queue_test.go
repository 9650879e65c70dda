package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

type fakeStorage struct {
	deleted []string
	err     error
}

func (f *fakeStorage) Delete(_ context.Context, url, container string) error {
	f.deleted = append(f.deleted, container+":"+url)
	return f.err
}

func TestPhotoRemover_Enqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	r := NewPhotoRemover(enq)

	require.NoError(t, r.Delete(context.Background(), "http://x/authors/a.jpg", "authors"))
	require.NoError(t, r.Delete(context.Background(), "", "authors"))

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeDeleteAuthorPhoto, enq.tasks[0].Type())

	var p DeletePhotoPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &p))
	assert.Equal(t, DeletePhotoPayload{URL: "http://x/authors/a.jpg", Container: "authors"}, p)
}

func TestPhotoRemover_EnqueueError(t *testing.T) {
	r := NewPhotoRemover(&fakeEnqueuer{err: errors.New("redis down")})
	assert.Error(t, r.Delete(context.Background(), "http://x/a.jpg", "authors"))
}

func TestDeletePhotoHandler(t *testing.T) {
	store := &fakeStorage{}
	h := NewDeletePhotoHandler(store)

	task, err := NewDeletePhotoTask("http://x/authors/a.jpg", "authors")
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"authors:http://x/authors/a.jpg"}, store.deleted)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeDeleteAuthorPhoto, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	store.err = errors.New("boom")
	assert.Error(t, h.ProcessTask(context.Background(), task))
}
