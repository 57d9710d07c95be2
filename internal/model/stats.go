package model

import (
	"time"

	"github.com/google/uuid"
)

// DateRange bounds a statistics query. Both ends are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// QuestionAggregate is the raw per-question rating aggregate read from storage.
type QuestionAggregate struct {
	QuestionID uuid.UUID
	Count      int
	Sum        int
}

// QuestionStat is the average rating of a question.
type QuestionStat struct {
	QuestionID    uuid.UUID `json:"questionId"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
}

// QuestionTotal is the summed rating of a question.
type QuestionTotal struct {
	QuestionID  uuid.UUID `json:"questionId"`
	TotalRating int       `json:"totalRating"`
}
