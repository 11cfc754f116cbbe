package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input validation and sanitization utilities

const maxContentLength = 10000

// ValidateUserType checks the segment against the known set
func ValidateUserType(userType string) error {
	allowed := map[string]bool{
		"enterprise": true,
		"developer":  true,
		"pro":        true,
		"free":       true,
	}

	if !allowed[strings.ToLower(userType)] {
		return fmt.Errorf("invalid user_type: %s (allowed: enterprise, developer, pro, free)", userType)
	}
	return nil
}

// ValidateCategory only enforces shape; unknown categories are legal and
// score with neutral weight downstream
func ValidateCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("category cannot be empty")
	}
	if utf8.RuneCountInString(category) > 64 {
		return fmt.Errorf("category too long (max 64 characters)")
	}
	if strings.ContainsAny(category, " \t\n") {
		return fmt.Errorf("category must not contain whitespace (use hyphens, e.g. data-loss)")
	}
	return nil
}

// ValidateContent checks the free-text complaint body
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return fmt.Errorf("content too long (max %d characters)", maxContentLength)
	}
	return nil
}
