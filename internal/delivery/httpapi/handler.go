package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
	"github.com/aliskhannn/review-center/internal/service"
)

type ReviewService interface {
	Schedule(ctx context.Context, params service.ScheduleParams) (*entities.Review, error)
	List(ctx context.Context) ([]*entities.Review, error)
	Get(ctx context.Context, id int64) (*entities.Review, error)
	Update(ctx context.Context, id int64, params repository.UpdateParams) (*entities.Review, error)
	Delete(ctx context.Context, id int64) error
}

type SessionService interface {
	Start(ctx context.Context, reviewID int64) (*service.Session, error)
	Get(reviewID int64) (*service.Session, error)
	Finalize(ctx context.Context, reviewID int64) (*entities.Review, error)
	Cancel(ctx context.Context, reviewID int64) error
}

// Handler serves the review-center HTTP API.
type Handler struct {
	logger   *zap.Logger
	reviews  ReviewService
	sessions SessionService
	catalog  service.QuestionCatalog
}

func NewHandler(
	logger *zap.Logger,
	reviews ReviewService,
	sessions SessionService,
	catalog service.QuestionCatalog,
) *Handler {
	return &Handler{
		logger:   logger,
		reviews:  reviews,
		sessions: sessions,
		catalog:  catalog,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/reviews", h.listReviews)
	mux.HandleFunc("POST /api/reviews", h.createReview)
	mux.HandleFunc("GET /api/reviews/{id}", h.getReview)
	mux.HandleFunc("PUT /api/reviews/{id}", h.updateReview)
	mux.HandleFunc("PATCH /api/reviews/{id}", h.updateReview)
	mux.HandleFunc("DELETE /api/reviews/{id}", h.deleteReview)

	mux.HandleFunc("GET /api/reviews/{id}/report", h.getReport)

	mux.HandleFunc("POST /api/reviews/{id}/session", h.startSession)
	mux.HandleFunc("GET /api/reviews/{id}/session", h.getSession)
	mux.HandleFunc("DELETE /api/reviews/{id}/session", h.cancelSession)
	mux.HandleFunc("POST /api/reviews/{id}/session/mark", h.markQuestion)
	mux.HandleFunc("POST /api/reviews/{id}/session/navigate", h.navigate)
	mux.HandleFunc("POST /api/reviews/{id}/session/practical", h.setPractical)
	mux.HandleFunc("POST /api/reviews/{id}/session/notes", h.setNotes)
	mux.HandleFunc("POST /api/reviews/{id}/session/workbench", h.setWorkbench)
	mux.HandleFunc("POST /api/reviews/{id}/session/workbench/run", h.runWorkbench)
	mux.HandleFunc("POST /api/reviews/{id}/session/pause", h.pauseSession)
	mux.HandleFunc("POST /api/reviews/{id}/session/resume", h.resumeSession)
	mux.HandleFunc("POST /api/reviews/{id}/session/submit", h.requestSubmit)
	mux.HandleFunc("POST /api/reviews/{id}/session/feedback", h.confirmFeedback)
	mux.HandleFunc("POST /api/reviews/{id}/session/feedback/cancel", h.cancelFeedback)
	mux.HandleFunc("POST /api/reviews/{id}/session/finalize", h.finalizeSession)

	return h.withLogging(mux)
}

func (h *Handler) reviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid review id"})
		return 0, false
	}
	return id, true
}

// session resolves the live session for the request, writing the error
// response itself when there is none.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return nil, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return sess, true
}
