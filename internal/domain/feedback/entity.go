package feedback

import (
	"time"
)

// ID tipe untuk Feedback
type FeedbackID string

// UserType enum
type UserType string

const (
	UserTypeEnterprise UserType = "enterprise"
	UserTypeDeveloper  UserType = "developer"
	UserTypePro        UserType = "pro"
	UserTypeFree       UserType = "free"
)

// Aggregate Root: Record
type Record struct {
	ID        FeedbackID `json:"id"`
	Source    string     `json:"source,omitempty"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	UserType  UserType   `json:"user_type"`
	CreatedAt time.Time  `json:"created_at"`
}

// CohortRow adalah hasil grouped-aggregate query dari store:
// satu baris per (category, user_type)
type CohortRow struct {
	Category     string
	UserType     UserType
	Count        int
	SampleConcat string  // concatenated complaint texts, bounded by the store
	AvgAgeDays   float64 // mean age of the records in days
}
