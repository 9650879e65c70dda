package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrRatingNotFound = errors.New("rating not found")
	ErrAlreadyRated   = errors.New("you have already rated this book, use PUT to change your score")
	ErrUnauthorized   = errors.New("authentication required")
)

var (
	MinScore = decimal.RequireFromString("0.5")
	MaxScore = decimal.NewFromInt(5)
)

// Rating is one user's score for one book
type Rating struct {
	ID        int
	BookID    int
	UserID    uuid.UUID
	Score     decimal.Decimal
	CreatedAt time.Time
}

// Summary is the aggregate cached on the books row
type Summary struct {
	Average decimal.Decimal
	Total   int
}

// Summarize computes the mean of all scores, rounded to two places.
// An empty set yields 0/0.
func Summarize(scores []decimal.Decimal) Summary {
	if len(scores) == 0 {
		return Summary{Average: decimal.Zero}
	}
	total := decimal.Sum(scores[0], scores[1:]...)
	avg := total.Div(decimal.NewFromInt(int64(len(scores)))).Round(2)
	return Summary{Average: avg, Total: len(scores)}
}

// BookRating is what GET /ratings/:bookId reports
type BookRating struct {
	Summary
	UserScore *decimal.Decimal
}

type BookRatingResponse struct {
	AverageRating float64  `json:"averageRating"`
	TotalRatings  int      `json:"totalRatings"`
	UserRating    *float64 `json:"userRating"`
}

func (r *BookRating) ToResponse() BookRatingResponse {
	out := BookRatingResponse{
		AverageRating: r.Average.InexactFloat64(),
		TotalRatings:  r.Total,
	}
	if r.UserScore != nil {
		score := r.UserScore.InexactFloat64()
		out.UserRating = &score
	}
	return out
}

type RatingRequest struct {
	Score decimal.Decimal `json:"score"`
}

func (r RatingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Score, validation.By(scoreInRange)),
	)
}

func scoreInRange(value interface{}) error {
	score, _ := value.(decimal.Decimal)
	if score.LessThan(MinScore) || score.GreaterThan(MaxScore) {
		return errors.New("Rating must be between 0.5 and 5")
	}
	return nil
}
