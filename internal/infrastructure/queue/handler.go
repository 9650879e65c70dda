package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// FileDeleter is implemented by every storage driver
type FileDeleter interface {
	Delete(ctx context.Context, url, container string) error
}

// DeletePhotoHandler removes the stored file named in the task payload
type DeletePhotoHandler struct {
	storage FileDeleter
}

func NewDeletePhotoHandler(storage FileDeleter) *DeletePhotoHandler {
	return &DeletePhotoHandler{storage: storage}
}

func (h *DeletePhotoHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload DeletePhotoPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeletePhoto payload")
		// retrying a malformed payload never succeeds
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.storage.Delete(ctx, payload.URL, payload.Container); err != nil {
		log.Error().
			Err(err).
			Str("url", payload.URL).
			Msg("Failed to delete author photo")
		return fmt.Errorf("delete photo: %w", err)
	}

	log.Info().
		Str("url", payload.URL).
		Msg("Author photo deleted")
	return nil
}

// RegisterHandlers binds every task type the worker processes
func RegisterHandlers(mux *asynq.ServeMux, photos *DeletePhotoHandler) {
	mux.HandleFunc(TypeDeleteAuthorPhoto, photos.ProcessTask)
}
