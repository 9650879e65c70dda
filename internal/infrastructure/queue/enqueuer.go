package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer is the subset of *asynq.Client used by the API process
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PhotoRemover defers photo deletion to the worker
type PhotoRemover struct {
	client Enqueuer
}

func NewPhotoRemover(client Enqueuer) *PhotoRemover {
	return &PhotoRemover{client: client}
}

func (r *PhotoRemover) Delete(ctx context.Context, url, container string) error {
	if url == "" {
		return nil
	}

	task, err := NewDeletePhotoTask(url, container)
	if err != nil {
		return err
	}

	info, err := r.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeDeleteAuthorPhoto, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("url", url).
		Msg("[QUEUE] photo deletion enqueued")
	return nil
}
