package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"issuetracker/internal/bootstrap/logging"
	"issuetracker/internal/domain/issue"
	"issuetracker/internal/errs"
	"issuetracker/internal/ports"
)

const healthTimeout = 2 * time.Second

// IssueService is the use-case surface the handlers drive.
type IssueService interface {
	ListIssues(ctx context.Context, project string, query issue.Values) ([]issue.View, error)
	CreateIssue(ctx context.Context, project string, input issue.Values) (issue.View, error)
	UpdateIssue(ctx context.Context, project string, input issue.Values) (string, error)
	DeleteIssue(ctx context.Context, project string, input issue.Values) (string, error)
}

type issueHandler struct {
	svc    IssueService
	health ports.HealthChecker
}

func projectParam(r *http.Request) string {
	raw := chi.URLParam(r, "project")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

func (h *issueHandler) list(w http.ResponseWriter, r *http.Request) {
	query := issue.FromURLValues(r.URL.Query())
	views, err := h.svc.ListIssues(r.Context(), projectParam(r), query)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *issueHandler) create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.body(w, r)
	if !ok {
		return
	}

	view, err := h.svc.CreateIssue(r.Context(), projectParam(r), input)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *issueHandler) update(w http.ResponseWriter, r *http.Request) {
	input, ok := h.body(w, r)
	if !ok {
		return
	}

	id, err := h.svc.UpdateIssue(r.Context(), projectParam(r), input)
	if err != nil {
		h.fail(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Result: ResultUpdated, ID: id})
}

func (h *issueHandler) remove(w http.ResponseWriter, r *http.Request) {
	input, ok := h.body(w, r)
	if !ok {
		return
	}

	id, err := h.svc.DeleteIssue(r.Context(), projectParam(r), input)
	if err != nil {
		h.fail(w, r, err, id)
		return
	}
	writeJSON(w, http.StatusOK, ResultResponse{Result: ResultDeleted, ID: id})
}

func (h *issueHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			logging.Warn(r.Context(), "store health check failed", slog.Any("err", errs.Loggable(err)))
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *issueHandler) body(w http.ResponseWriter, r *http.Request) (issue.Values, bool) {
	input, err := decodeBody(w, r)
	if err != nil {
		logging.Debug(r.Context(), "request body rejected", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusBadRequest, messageInvalidBody)
		return nil, false
	}
	return input, true
}

// fail answers domain outcomes with HTTP 200 and their literal message, and
// anything else with a generic 500.
func (h *issueHandler) fail(w http.ResponseWriter, r *http.Request, err error, id string) {
	switch {
	case errors.Is(err, issue.ErrRequiredFieldsMissing),
		errors.Is(err, issue.ErrMissingID),
		errors.Is(err, issue.ErrProjectRequired):
		writeJSON(w, http.StatusOK, ErrorResponse{Error: err.Error()})
	case errors.Is(err, issue.ErrNoUpdateFields),
		errors.Is(err, issue.ErrCouldNotUpdate),
		errors.Is(err, issue.ErrCouldNotDelete):
		writeJSON(w, http.StatusOK, ErrorResponse{Error: err.Error(), ID: id})
	default:
		logging.Error(r.Context(), "issue request failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, messageInternal)
	}
}
