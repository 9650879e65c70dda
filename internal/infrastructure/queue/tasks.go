package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeDeleteAuthorPhoto = "author:delete_photo"

	QueueDefault = "default"
)

// DeletePhotoPayload identifies a stored file by its public URL
type DeletePhotoPayload struct {
	URL       string `json:"url"`
	Container string `json:"container"`
}

func NewDeletePhotoTask(url, container string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeletePhotoPayload{URL: url, Container: container})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeDeleteAuthorPhoto, payload), nil
}
