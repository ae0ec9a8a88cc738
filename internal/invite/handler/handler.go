package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"skyparty/internal/invite/models"
	"skyparty/internal/platform/metrics"
	"skyparty/internal/platform/middleware"
	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/httputil"
)

const maxRequestBody = 4 << 10

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

// Service is the challenge flow as seen by transport.
type Service interface {
	Questions(ctx context.Context) ([]string, error)
	Verify(ctx context.Context, req models.RequestInviteRequest) (*models.VerifyResult, error)
}

// Handler serves the public invite endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	supportEmail string
}

func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, supportEmail string) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      metrics,
		supportEmail: supportEmail,
	}
}

// Register mounts /api/questions and /api/requestInvite on r.
func (h *Handler) Register(r chi.Router) {
	apiRouter := chi.NewRouter()
	apiRouter.Use(middleware.RecoveryWith(h.logger, writeStorageFailure))
	apiRouter.Use(middleware.RequestID)
	apiRouter.Use(middleware.Logger(h.logger))
	apiRouter.Use(middleware.LatencyMiddleware(h.metrics))
	apiRouter.Get("/questions", h.handleQuestions)
	apiRouter.With(middleware.RequireJSON(writeRequired)).Post("/requestInvite", h.handleRequestInvite)

	r.Mount("/api", apiRouter)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	available, err := h.service.Questions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list questions",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, errorBody(models.MessageStorageFailure))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.QuestionsResponse{Questions: available})
}

func (h *Handler) handleRequestInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req models.RequestInviteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid request invite body",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, errorBody(models.MessageRequired))
		return
	}

	res, err := h.service.Verify(ctx, req)
	if err != nil {
		h.writeVerifyError(ctx, w, err)
		return
	}

	switch res.Outcome {
	case models.OutcomeIssued:
		httputil.WriteJSON(w, http.StatusOK, models.InviteResponse{
			Status:  models.StatusSuccess,
			Message: models.MessageInviteSent,
			Club:    res.Club,
		})
	case models.OutcomeRetried:
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, models.InviteResponse{
			Status:      models.StatusError,
			Message:     models.WrongAnswerMessage(res.Attempts, res.MaxAttempts),
			Attempts:    res.Attempts,
			MaxAttempts: res.MaxAttempts,
		})
	case models.OutcomeLockoutTriggered:
		httputil.WriteJSON(w, http.StatusForbidden, errorBody(models.LockedMessage(h.supportEmail)))
	case models.OutcomeAlreadyLocked:
		httputil.WriteJSON(w, http.StatusForbidden, errorBody(models.AccessDeniedMessage(h.supportEmail)))
	default:
		h.logger.ErrorContext(ctx, "unexpected verification outcome",
			"request_id", requestID,
			"outcome", res.Outcome,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, errorBody(models.MessageStorageFailure))
	}
}

// writeVerifyError keeps client messages to the fixed set; storage details stay in logs.
func (h *Handler) writeVerifyError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeNotFound):
		httputil.WriteJSON(w, http.StatusBadRequest, errorBody(dErrors.MessageOf(err)))
	default:
		h.logger.ErrorContext(ctx, "request invite failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, errorBody(models.MessageStorageFailure))
	}
}

func errorBody(message string) models.InviteResponse {
	return models.InviteResponse{Status: models.StatusError, Message: message}
}

// writeRequired answers bodies that are not JSON the way an empty body is answered.
func writeRequired(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusBadRequest, errorBody(models.MessageRequired))
}

func writeStorageFailure(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusInternalServerError, errorBody(models.MessageStorageFailure))
}
