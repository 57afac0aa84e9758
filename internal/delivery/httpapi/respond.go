package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
	"github.com/aliskhannn/review-center/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`

	// FirstUnmarkedIndex points at the question blocking submission.
	FirstUnmarkedIndex *int `json:"firstUnmarkedIndex,omitempty"`

	// Retryable marks failures the caller should simply retry,
	// e.g. a finalize write that did not reach the backend.
	Retryable bool `json:"retryable,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

// respondError maps service errors onto HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var incomplete *service.QuestionsIncompleteError
	if errors.As(err, &incomplete) {
		index := incomplete.Index
		h.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:              incomplete.Error(),
			FirstUnmarkedIndex: &index,
		})
		return
	}

	var finalizeErr *service.FinalizeError
	if errors.As(err, &finalizeErr) {
		h.respondJSON(w, http.StatusBadGateway, errorResponse{
			Error:     "failed to save results, please try again",
			Retryable: true,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrReportUnavailable):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrReviewCompleted),
		errors.Is(err, service.ErrInvalidPhase),
		errors.Is(err, service.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, service.ErrMissingPracticalLink):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrQuestionNotInModule),
		errors.Is(err, service.ErrInvalidMarkStatus),
		errors.Is(err, service.ErrScoreOutOfRange),
		errors.Is(err, service.ErrScoreNotHalfStep),
		errors.Is(err, service.ErrStudentNameRequired),
		errors.Is(err, entities.ErrInvalidModuleLabel):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
