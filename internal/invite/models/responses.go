package models

import (
	"fmt"
	"time"
)

// Client-facing messages.
const (
	MessageRequired        = "Required"
	MessageInvalidQuestion = "Invalid question"
	MessageInviteSent      = "Invite sent!"
	MessageStorageFailure  = "Something went wrong. Please try again."

	StatusSuccess = "success"
	StatusError   = "error"
)

func WrongAnswerMessage(attempts, maxAttempts int) string {
	return fmt.Sprintf("Wrong. %d/%d", attempts, maxAttempts)
}

func LockedMessage(supportEmail string) string {
	return "Locked. Contact " + supportEmail
}

func AccessDeniedMessage(supportEmail string) string {
	return "Access denied. Contact " + supportEmail
}

// Outcome is the terminal state of one challenge submission.
type Outcome string

const (
	OutcomeIssued           Outcome = "issued"
	OutcomeRetried          Outcome = "retried"
	OutcomeLockoutTriggered Outcome = "lockout_triggered"
	OutcomeAlreadyLocked    Outcome = "already_locked"
)

// VerifyResult is what the verification flow reports back to transport.
// Invite is set only for OutcomeIssued and never leaves the process.
type VerifyResult struct {
	Outcome     Outcome
	Club        string
	Attempts    int
	MaxAttempts int
	Invite      *Invite
}

type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// InviteResponse is the body of every POST /api/requestInvite reply.
type InviteResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Club        string `json:"club,omitempty"`
	Attempts    int    `json:"attempts,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
}

// InviteView is the admin projection of an invite; the code is masked.
type InviteView struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Code     string    `json:"code"`
	Club     string    `json:"club"`
	Question string    `json:"question"`
	Status   string    `json:"status"`
	IssuedAt time.Time `json:"issued_at"`
}

func NewInviteView(inv *Invite) InviteView {
	return InviteView{
		ID:       inv.ID,
		Email:    inv.Email,
		Code:     inv.MaskedCode(),
		Club:     inv.Club,
		Question: inv.Question,
		Status:   string(inv.Status),
		IssuedAt: inv.IssuedAt,
	}
}

type InvitesResponse struct {
	Invites []InviteView `json:"invites"`
}

type LockoutsResponse struct {
	Lockouts []*LockedApplicant `json:"lockouts"`
}

type RetiredQuestionsResponse struct {
	Retired []*UsedQuestion `json:"retired"`
}
