// Package test drives the invite handlers over a fully assembled in-memory
// stack, one scenario per applicant journey.
package test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyparty/internal/invite/handler"
	"skyparty/internal/invite/models"
	"skyparty/internal/invite/questions"
	"skyparty/internal/invite/service/admin"
	"skyparty/internal/invite/service/issuer"
	"skyparty/internal/invite/service/verify"
	"skyparty/internal/invite/store/attempts"
	"skyparty/internal/invite/store/invites"
	"skyparty/internal/invite/store/lockout"
	"skyparty/internal/invite/store/usage"
	"skyparty/pkg/testutil"
)

const (
	support    = "support@app.skyparty.name.ng"
	adminToken = "letmein"

	hostQuestion = "Who hosted the inaugural Sky Party™?"
	jetQuestion  = "What is the tail number of the Sky Party™ jet?"
)

func newRouter(t *testing.T, ttl time.Duration) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledger := usage.New()
	lockouts := lockout.New()
	inviteStore := invites.New()

	bank, err := questions.NewBank(questions.DefaultCatalogue(), ledger)
	require.NoError(t, err)
	iss, err := issuer.New(inviteStore, issuer.WithLogger(logger))
	require.NoError(t, err)
	svc, err := verify.New(bank,
		verify.Stores{Ledger: ledger, Attempts: attempts.New(), Lockouts: lockouts},
		iss,
		verify.WithLogger(logger),
		verify.WithAttemptTTL(ttl),
	)
	require.NoError(t, err)
	adminSvc, err := admin.New(lockouts, inviteStore, ledger)
	require.NoError(t, err)

	r := chi.NewRouter()
	handler.New(svc, logger, nil, support).Register(r)
	handler.NewAdmin(adminSvc, logger, nil, adminToken).Register(r)
	return r
}

func availableQuestions(t *testing.T, router http.Handler) []string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/questions", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	return testutil.DecodeJSON[models.QuestionsResponse](t, rr).Questions
}

func TestCorrectAnswerIssuesInvite(t *testing.T) {
	testutil.Given(t, "a fresh question bank", func(t *testing.T) {
		router := newRouter(t, 0)
		require.Contains(t, availableQuestions(t, router), hostQuestion)

		testutil.When(t, "an applicant answers correctly with stray case and spaces", func(t *testing.T) {
			req := testutil.WithRequestID(testutil.NewInviteRequest(t, "Ada@Example.com", hostQuestion, "  VICTOR ade "), "req-1")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the invite is sent with the question's club", func(t *testing.T) {
				resp := testutil.AssertInviteResponse(t, rr, http.StatusOK, models.MessageInviteSent)
				assert.Equal(t, models.StatusSuccess, resp.Status)
				assert.Equal(t, "Victor Ade Club", resp.Club)
			})

			testutil.And(t, "the question is retired", func(t *testing.T) {
				assert.NotContains(t, availableQuestions(t, router), hostQuestion)
			})

			testutil.And(t, "the invite is recorded under the lowercased email", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewAdminRequest(t, "/admin/invites?email=ada@example.com", adminToken))
				testutil.AssertStatus(t, rr, http.StatusOK)
				list := testutil.DecodeJSON[models.InvitesResponse](t, rr).Invites
				require.Len(t, list, 1)
				assert.Equal(t, hostQuestion, list[0].Question)
			})
		})

		testutil.When(t, "another applicant answers the retired question", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewInviteRequest(t, "bo@example.com", hostQuestion, "Victor Ade"))

			testutil.Then(t, "the question is rejected as invalid", func(t *testing.T) {
				testutil.AssertInviteResponse(t, rr, http.StatusBadRequest, models.MessageInvalidQuestion)
			})
		})
	})
}

func TestWrongAnswersLockTheApplicant(t *testing.T) {
	testutil.Given(t, "an applicant who keeps guessing wrong", func(t *testing.T) {
		router := newRouter(t, 0)
		const email = "eve@example.com"

		testutil.When(t, "the first three answers are wrong", func(t *testing.T) {
			for i := 1; i <= 3; i++ {
				rr := testutil.DoRequest(router, testutil.NewInviteRequest(t, email, jetQuestion, "5N-NOPE"))
				resp := testutil.AssertInviteResponse(t, rr, http.StatusUnprocessableEntity, models.WrongAnswerMessage(i, 4))
				assert.Equal(t, i, resp.Attempts)
				assert.Equal(t, 4, resp.MaxAttempts)
			}
		})

		testutil.When(t, "the fourth answer is wrong", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewInviteRequest(t, email, jetQuestion, "5N-NOPE"))

			testutil.Then(t, "the applicant is locked and the question retired", func(t *testing.T) {
				testutil.AssertInviteResponse(t, rr, http.StatusForbidden, models.LockedMessage(support))
				assert.NotContains(t, availableQuestions(t, router), jetQuestion)
			})

			testutil.And(t, "the lockout is visible to admins", func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewAdminRequest(t, "/admin/lockouts/"+email, adminToken))
				testutil.AssertStatus(t, rr, http.StatusOK)
				rec := testutil.DecodeJSON[models.LockedApplicant](t, rr)
				assert.Equal(t, models.LockReason(4), rec.Reason)
			})
		})

		testutil.When(t, "the locked applicant answers a fresh question correctly", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewInviteRequest(t, email, hostQuestion, "Victor Ade"))

			testutil.Then(t, "access is denied and the question stays open", func(t *testing.T) {
				testutil.AssertInviteResponse(t, rr, http.StatusForbidden, models.AccessDeniedMessage(support))
				assert.Contains(t, availableQuestions(t, router), hostQuestion)
			})
		})
	})
}

func TestAttemptCounterExpires(t *testing.T) {
	testutil.Given(t, "a one hour attempt window", func(t *testing.T) {
		router := newRouter(t, time.Hour)
		start := time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC)

		for i := 1; i <= 3; i++ {
			req := testutil.WithRequestTime(testutil.NewInviteRequest(t, "kim@example.com", jetQuestion, "wrong"), start)
			testutil.AssertInviteResponse(t, testutil.DoRequest(router, req), http.StatusUnprocessableEntity, models.WrongAnswerMessage(i, 4))
		}

		testutil.When(t, "the next wrong answer arrives after the window", func(t *testing.T) {
			req := testutil.WithRequestTime(testutil.NewInviteRequest(t, "kim@example.com", jetQuestion, "wrong"), start.Add(2*time.Hour))
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "counting starts over instead of locking", func(t *testing.T) {
				testutil.AssertInviteResponse(t, rr, http.StatusUnprocessableEntity, models.WrongAnswerMessage(1, 4))
			})
		})
	})
}

func TestRejectedRequests(t *testing.T) {
	router := newRouter(t, 0)

	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		status  int
		message string
	}{
		{
			name:    "missing answer",
			req:     func(t *testing.T) *http.Request { return testutil.NewInviteRequest(t, "a@example.com", hostQuestion, "") },
			status:  http.StatusBadRequest,
			message: models.MessageRequired,
		},
		{
			name:    "malformed body",
			req:     func(t *testing.T) *http.Request { return testutil.NewRawRequest(t, http.MethodPost, "/api/requestInvite", "{") },
			status:  http.StatusBadRequest,
			message: models.MessageRequired,
		},
		{
			name:    "unknown question",
			req:     func(t *testing.T) *http.Request { return testutil.NewInviteRequest(t, "a@example.com", "Who?", "me") },
			status:  http.StatusBadRequest,
			message: models.MessageInvalidQuestion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, tt.req(t))
			testutil.AssertInviteResponse(t, rr, tt.status, tt.message)
		})
	}

	t.Run("admin routes need the token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewAdminRequest(t, "/admin/lockouts", "wrong"))
		testutil.AssertErrorCode(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("unlocked applicant is not found", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewAdminRequest(t, "/admin/lockouts/nobody@example.com", adminToken))
		testutil.AssertErrorCode(t, rr, http.StatusNotFound, "not_found")
	})
}
