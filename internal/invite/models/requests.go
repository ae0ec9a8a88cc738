package models

import (
	"strings"

	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/email"
)

// RequestInviteRequest is the body of POST /api/requestInvite.
type RequestInviteRequest struct {
	Email    string `json:"email"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Normalize lowercases the email and trims the question. The answer is left
// as typed; comparison trims it.
func (r *RequestInviteRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
	r.Question = strings.TrimSpace(r.Question)
}

// Validate requires all three fields to be non-empty after trimming.
func (r *RequestInviteRequest) Validate() error {
	if r.Email == "" || r.Question == "" || strings.TrimSpace(r.Answer) == "" {
		return dErrors.New(dErrors.CodeValidation, MessageRequired)
	}
	return nil
}
