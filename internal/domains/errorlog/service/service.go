package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"biblioteca-api/internal/domains/errorlog/model"
	"biblioteca-api/internal/domains/errorlog/repository"
)

// Recorder writes unexpected failures to the errors table.
// It satisfies middleware.ErrorRecorder.
type Recorder struct {
	repo repository.Repository
	now  func() time.Time
}

func NewRecorder(repo repository.Repository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, message, stackTrace string) error {
	return r.repo.Create(ctx, &model.ErrorLog{
		ID:         uuid.New(),
		Message:    message,
		StackTrace: stackTrace,
		Date:       r.now().UTC(),
	})
}
