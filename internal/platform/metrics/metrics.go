package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec

	InvitesIssued         *prometheus.CounterVec
	ChallengeFailures     prometheus.Counter
	UnknownQuestions      prometheus.Counter
	ApplicantsLocked      prometheus.Counter
	LockedDenials         prometheus.Counter
	InviteCodeCollisions  prometheus.Counter
	MailDelivered         prometheus.Counter
	MailDeliveryFailures  prometheus.Counter
	MailQueueDropped      prometheus.Counter
	VerifyStorageFailures prometheus.Counter
}

// New creates and registers all metrics on reg. Pass prometheus.NewRegistry()
// in tests to avoid duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skyparty_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		InvitesIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skyparty_invites_issued_total",
			Help: "Invites issued after a correct answer, by club",
		}, []string{"club"}),
		ChallengeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_challenge_failures_total",
			Help: "Wrong answers recorded",
		}),
		UnknownQuestions: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_challenge_unknown_question_total",
			Help: "Submissions naming a question that is unknown or retired",
		}),
		ApplicantsLocked: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_applicants_locked_total",
			Help: "Applicants permanently locked out",
		}),
		LockedDenials: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_locked_applicant_denials_total",
			Help: "Requests rejected because the applicant was already locked",
		}),
		InviteCodeCollisions: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_invite_code_collisions_total",
			Help: "Generated invite codes rejected by the uniqueness constraint",
		}),
		MailDelivered: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_invite_mail_delivered_total",
			Help: "Invite mails handed to the transport",
		}),
		MailDeliveryFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_invite_mail_failures_total",
			Help: "Invite mails the transport rejected",
		}),
		MailQueueDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_invite_mail_dropped_total",
			Help: "Invite mails dropped because the delivery queue was full",
		}),
		VerifyStorageFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "skyparty_verify_storage_failures_total",
			Help: "Challenge submissions aborted by a storage failure",
		}),
	}
}

// ObserveRequest records one HTTP request's latency.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}

func (m *Metrics) IncrementInvitesIssued(club string) {
	if m == nil {
		return
	}
	m.InvitesIssued.WithLabelValues(club).Inc()
}

func (m *Metrics) IncrementChallengeFailures() {
	if m == nil {
		return
	}
	m.ChallengeFailures.Inc()
}

func (m *Metrics) IncrementUnknownQuestions() {
	if m == nil {
		return
	}
	m.UnknownQuestions.Inc()
}

func (m *Metrics) IncrementApplicantsLocked() {
	if m == nil {
		return
	}
	m.ApplicantsLocked.Inc()
}

func (m *Metrics) IncrementLockedDenials() {
	if m == nil {
		return
	}
	m.LockedDenials.Inc()
}

func (m *Metrics) IncrementCodeCollisions() {
	if m == nil {
		return
	}
	m.InviteCodeCollisions.Inc()
}

func (m *Metrics) IncrementMailDelivered() {
	if m == nil {
		return
	}
	m.MailDelivered.Inc()
}

func (m *Metrics) IncrementMailFailures() {
	if m == nil {
		return
	}
	m.MailDeliveryFailures.Inc()
}

func (m *Metrics) IncrementMailDropped() {
	if m == nil {
		return
	}
	m.MailQueueDropped.Inc()
}

func (m *Metrics) IncrementStorageFailures() {
	if m == nil {
		return
	}
	m.VerifyStorageFailures.Inc()
}
