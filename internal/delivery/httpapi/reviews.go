package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
	"github.com/aliskhannn/review-center/internal/service"
)

type createReviewRequest struct {
	StudentName string                `json:"studentName"`
	Batch       string                `json:"batch"`
	Module      string                `json:"module"`
	Status      entities.ReviewStatus `json:"status"`
	ScheduledAt *time.Time            `json:"scheduledAt"`
}

type updateReviewRequest struct {
	Status      *entities.ReviewStatus `json:"status"`
	Scores      json.RawMessage        `json:"scores"`
	Notes       *string                `json:"notes"`
	SessionData json.RawMessage        `json:"session_data"`
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*entities.Review{}
	}

	h.respondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	params := service.ScheduleParams{
		StudentName: req.StudentName,
		Batch:       req.Batch,
		Module:      req.Module,
		Status:      req.Status,
	}
	if req.ScheduledAt != nil {
		params.ScheduledAt = *req.ScheduledAt
	}

	review, err := h.reviews.Schedule(r.Context(), params)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, review)
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, review)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	var req updateReviewRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviews.Update(r.Context(), id, repository.UpdateParams{
		Status:      req.Status,
		Scores:      req.Scores,
		Notes:       req.Notes,
		SessionData: req.SessionData,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, review)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	report, err := service.RenderReport(review, h.catalog)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}
