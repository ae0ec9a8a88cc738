package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultClub is the tier assigned to questions without an explicit club.
const DefaultClub = "Elite Club"

// ChallengeQuestion is one immutable entry of the question bank.
type ChallengeQuestion struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Club     string `yaml:"club"`
}

// Matches compares an answer trimmed and case-insensitively.
func (q ChallengeQuestion) Matches(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(q.Answer), strings.TrimSpace(answer))
}

// ClubOrDefault returns the explicit club, falling back to DefaultClub.
func (q ChallengeQuestion) ClubOrDefault() string {
	if strings.TrimSpace(q.Club) == "" {
		return DefaultClub
	}
	return q.Club
}

// UsedQuestion marks a question as permanently retired.
type UsedQuestion struct {
	Question  string    `json:"question"`
	RetiredAt time.Time `json:"retired_at"`
}

// AttemptRecord counts wrong answers for one (email, question) pair.
type AttemptRecord struct {
	Email         string
	Question      string
	Count         int
	LastAttemptAt time.Time
}

// IsExpired reports whether the record's last failure is older than ttl.
// A zero ttl never expires.
func (r *AttemptRecord) IsExpired(ttl time.Duration, now time.Time) bool {
	if r == nil || ttl <= 0 {
		return false
	}
	return now.Sub(r.LastAttemptAt) > ttl
}

// LockedApplicant is a permanent denial.
type LockedApplicant struct {
	Email    string    `json:"email"`
	Reason   string    `json:"reason"`
	LockedAt time.Time `json:"locked_at"`
}

// LockReason is the reason recorded when the attempt limit is reached.
func LockReason(maxAttempts int) string {
	return fmt.Sprintf("%d failed attempts", maxAttempts)
}

type InviteStatus string

const (
	InviteStatusSent InviteStatus = "Sent"

	// InviteStatusRedeemed is set by the downstream signup flow once the code
	// is used. Nothing in this service writes it; the stores carry it through.
	InviteStatusRedeemed InviteStatus = "Redeemed"
)

// Invite is issued once per successful verification.
type Invite struct {
	ID       string
	Email    string
	Code     string
	Club     string
	Question string
	Status   InviteStatus
	IssuedAt time.Time
}

// MaskedCode keeps only the last four characters, for logs and admin views.
func (i *Invite) MaskedCode() string {
	if len(i.Code) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(i.Code)-4) + i.Code[len(i.Code)-4:]
}
