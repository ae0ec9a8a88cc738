package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/metrics"
	"skyparty/internal/platform/middleware"
	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/httputil"
	adminmw "skyparty/pkg/platform/middleware/admin"
)

//go:generate mockgen -source=admin.go -destination=mocks/admin_mock.go -package=mocks

// AdminService is the read-only operator view.
type AdminService interface {
	ListLockouts(ctx context.Context, limit int) ([]*models.LockedApplicant, error)
	GetLockout(ctx context.Context, email string) (*models.LockedApplicant, error)
	ListInvites(ctx context.Context, email string) ([]*models.Invite, error)
	ListRetired(ctx context.Context) ([]*models.UsedQuestion, error)
}

type AdminHandler struct {
	logger     *slog.Logger
	service    AdminService
	metrics    *metrics.Metrics
	adminToken string
}

func NewAdmin(service AdminService, logger *slog.Logger, metrics *metrics.Metrics, adminToken string) *AdminHandler {
	return &AdminHandler{
		logger:     logger,
		service:    service,
		metrics:    metrics,
		adminToken: adminToken,
	}
}

// Register mounts /admin behind the X-Admin-Token check.
func (h *AdminHandler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.LatencyMiddleware(h.metrics))
	adminRouter.Use(adminmw.RequireAdminToken(h.adminToken, h.logger))
	adminRouter.Get("/lockouts", h.handleListLockouts)
	adminRouter.Get("/lockouts/{email}", h.handleGetLockout)
	adminRouter.Get("/invites", h.handleListInvites)
	adminRouter.Get("/questions/retired", h.handleListRetired)

	r.Mount("/admin", adminRouter)
}

func (h *AdminHandler) handleListLockouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	list, err := h.service.ListLockouts(r.Context(), limit)
	if err != nil {
		h.fail(r, w, "failed to list lockouts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.LockoutsResponse{Lockouts: list})
}

func (h *AdminHandler) handleGetLockout(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetLockout(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(r, w, "failed to get lockout", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *AdminHandler) handleListInvites(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListInvites(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.fail(r, w, "failed to list invites", err)
		return
	}
	views := make([]models.InviteView, 0, len(list))
	for _, inv := range list {
		views = append(views, models.NewInviteView(inv))
	}
	httputil.WriteJSON(w, http.StatusOK, models.InvitesResponse{Invites: views})
}

func (h *AdminHandler) handleListRetired(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRetired(r.Context())
	if err != nil {
		h.fail(r, w, "failed to list retired questions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.RetiredQuestionsResponse{Retired: list})
}

func (h *AdminHandler) fail(r *http.Request, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), msg,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
