package model

import (
	"time"

	"github.com/google/uuid"
)

// ErrorLog is one unexpected failure persisted by the global error handlers
type ErrorLog struct {
	ID         uuid.UUID
	Message    string
	StackTrace string
	Date       time.Time
}
