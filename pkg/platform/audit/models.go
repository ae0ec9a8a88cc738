package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// Sinks use it for routing and retention.
type EventCategory string

const (
	// CategoryCompliance covers events with lasting business significance:
	// invites issued and applicants locked out.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to abuse monitoring: wrong
	// answers, denied locked applicants, probing with unknown questions.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers delivery outcomes and other operational signals.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Category  EventCategory
	Timestamp time.Time
	// Subject is the normalized applicant email.
	Subject   string
	Action    string
	Question  string
	Decision  string
	Reason    string
	RequestID string
	ClientIP  string
	Device    string
}

type AuditEvent string

const (
	EventInviteIssued          AuditEvent = "invite_issued"
	EventChallengeFailed       AuditEvent = "challenge_failed"
	EventApplicantLocked       AuditEvent = "applicant_locked"
	EventLockedApplicantDenied AuditEvent = "locked_applicant_denied"
	EventUnknownQuestion       AuditEvent = "unknown_question"
	EventInviteDelivered       AuditEvent = "invite_delivered"
	EventInviteDeliveryFailed  AuditEvent = "invite_delivery_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventInviteIssued:    CategoryCompliance,
	EventApplicantLocked: CategoryCompliance,

	EventChallengeFailed:       CategorySecurity,
	EventLockedApplicantDenied: CategorySecurity,
	EventUnknownQuestion:       CategorySecurity,

	EventInviteDelivered:      CategoryOperations,
	EventInviteDeliveryFailed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store is a sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
