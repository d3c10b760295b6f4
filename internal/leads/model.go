package leads

import (
	"strings"
	"time"
)

// Lead is a stored contact submission. It is never mutated after insert.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitRequest represents the request body for submitting a lead
type SubmitRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Normalize returns a copy with surrounding whitespace removed.
func (r SubmitRequest) Normalize() SubmitRequest {
	return SubmitRequest{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
	}
}

// Validate checks that every required field is present. Shape checks on
// email and phone are left to the form.
func (r SubmitRequest) Validate() error {
	n := r.Normalize()
	var missing []string
	if n.Name == "" {
		missing = append(missing, "name")
	}
	if n.Email == "" {
		missing = append(missing, "email")
	}
	if n.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func (r SubmitRequest) toLead(submittedAt time.Time) *Lead {
	n := r.Normalize()
	return &Lead{
		Name:        n.Name,
		Email:       n.Email,
		Phone:       n.Phone,
		SubmittedAt: submittedAt.UTC(),
	}
}
