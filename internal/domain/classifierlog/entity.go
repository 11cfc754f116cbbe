package classifierlog

import "time"

// Entry represents a persisted classifier failure, kept for operational
// visibility only; failures never surface to API callers
type Entry struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	UserType  string    `json:"user_type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
