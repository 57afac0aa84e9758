package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

type markRequest struct {
	QuestionID int                 `json:"questionId"`
	Status     entities.MarkStatus `json:"status"`
}

type navigateRequest struct {
	Action string `json:"action"` // "next", "previous" or "goto"
	Index  int    `json:"index"`  // used by "goto"
}

type practicalRequest struct {
	Score *float64 `json:"score"`
	Link  *string  `json:"link"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type workbenchRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Hello-world templates the workbench falls back to when switching
// language without code.
const (
	workbenchTemplateC    = "#include <stdio.h>\n\nint main() {\n    printf(\"Hello World\\n\");\n    return 0;\n}"
	workbenchTemplateJava = "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello World\");\n    }\n}"
)

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Start(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) cancelSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Cancel(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markQuestion(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req markRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := sess.Mark(r.Context(), req.QuestionID, req.Status); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var err error
	switch req.Action {
	case "next":
		err = sess.Next(r.Context())
	case "previous":
		err = sess.Previous(r.Context())
	case "goto":
		err = sess.GoTo(r.Context(), req.Index)
	default:
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown navigation action"})
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) setPractical(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req practicalRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Score != nil {
		if err := sess.SetPracticalScore(r.Context(), *req.Score); err != nil {
			h.respondError(w, err)
			return
		}
	}
	if req.Link != nil {
		if err := sess.SetPracticalLink(r.Context(), *req.Link); err != nil {
			h.respondError(w, err)
			return
		}
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req notesRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := sess.SetNotes(r.Context(), req.Notes); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) setWorkbench(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req workbenchRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Code == "" {
		switch req.Language {
		case "java":
			req.Code = workbenchTemplateJava
		default:
			req.Code = workbenchTemplateC
		}
	}

	if err := sess.SetWorkbench(r.Context(), req.Language, req.Code); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

// runWorkbench simulates the compiler panel. No code ever runs; the
// response is a canned transcript.
func (h *Handler) runWorkbench(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	view := sess.View()
	now := time.Now().Format("15:04:05")

	h.respondJSON(w, http.StatusOK, map[string]any{
		"output": []string{
			fmt.Sprintf("[%s] Compiling %s...", now, view.WorkbenchLanguage),
			fmt.Sprintf("[%s] Execution Successful.", now),
			"> Program output: Hello World",
		},
	})
}

func (h *Handler) pauseSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.Pause(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) resumeSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.Resume(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) requestSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.RequestSubmit(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) confirmFeedback(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.ConfirmFeedback(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) cancelFeedback(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.CancelFeedback(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) finalizeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.sessions.Finalize(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, review)
}
