package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
)

var (
	ErrSessionNotFound      = errors.New("no live session for this review")
	ErrSessionClosed        = errors.New("session already closed")
	ErrReviewCompleted      = errors.New("review is already completed")
	ErrInvalidPhase         = errors.New("operation not allowed in current phase")
	ErrQuestionNotInModule  = errors.New("question does not belong to this session's module")
	ErrInvalidMarkStatus    = errors.New("unknown mark status")
	ErrMissingPracticalLink = errors.New("practical link is required")
)

// QuestionsIncompleteError blocks submission while any question lacks a
// mark. Index points at the first unmarked question so the caller can
// navigate there.
type QuestionsIncompleteError struct {
	Index int
}

func (e *QuestionsIncompleteError) Error() string {
	return fmt.Sprintf("question %d is not marked yet", e.Index+1)
}

// FinalizeError wraps a failed backend write. The session stays in
// result_ready and its snapshot is untouched, so finalize can be retried.
type FinalizeError struct {
	Err error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("finalize review: %v", e.Err)
}

func (e *FinalizeError) Unwrap() error {
	return e.Err
}

// Session is the live state of one evaluation being conducted. All
// methods are safe for concurrent use; the ticker goroutine is the only
// other writer in practice.
type Session struct {
	mu        sync.Mutex
	state     *entities.SessionState
	questions []entities.Question // module subset, catalog order
	review    *entities.Review

	snapshots SnapshotStore
	reviews   ReviewStore
	logger    *zap.Logger

	final  *entities.FinalizeResult // frozen on entering result_ready
	done   chan struct{}            // closed when the session ends
	closed bool
}

func newSession(
	state *entities.SessionState,
	questions []entities.Question,
	review *entities.Review,
	snapshots SnapshotStore,
	reviews ReviewStore,
	logger *zap.Logger,
) *Session {
	return &Session{
		state:     state,
		questions: questions,
		review:    review,
		snapshots: snapshots,
		reviews:   reviews,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier (the review record ID).
func (s *Session) ID() int64 {
	return s.state.SessionID
}

// Review returns the review record this session was started for.
func (s *Session) Review() *entities.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// persist write-through saves the current state. Caller holds the lock.
func (s *Session) persist(ctx context.Context) error {
	data, err := json.Marshal(s.state.ToSnapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.snapshots.Save(ctx, s.state.SessionID, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Session) clampIndex(index int) int {
	if len(s.questions) == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index > len(s.questions)-1 {
		return len(s.questions) - 1
	}
	return index
}

// GoTo moves to the given question index, saturating at the bounds.
func (s *Session) GoTo(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}

	s.state.CurrentIndex = s.clampIndex(index)
	return s.persist(ctx)
}

// Next advances to the following question; a no-op on the last one.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	index := s.state.CurrentIndex + 1
	s.mu.Unlock()
	return s.GoTo(ctx, index)
}

// Previous steps back one question; a no-op on the first one.
func (s *Session) Previous(ctx context.Context) error {
	s.mu.Lock()
	index := s.state.CurrentIndex - 1
	s.mu.Unlock()
	return s.GoTo(ctx, index)
}

// Mark records the reviewer's judgment on a question, replacing any
// earlier mark, and advances to the next question unless the marked one
// is last in the sequence.
func (s *Session) Mark(ctx context.Context, questionID int, status entities.MarkStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}
	if !status.Valid() {
		return ErrInvalidMarkStatus
	}

	found := false
	for _, q := range s.questions {
		if q.ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return ErrQuestionNotInModule
	}

	s.state.Marks[questionID] = entities.NewQuestionMark(questionID, status)

	if s.state.CurrentIndex < len(s.questions)-1 {
		s.state.CurrentIndex++
	}

	return s.persist(ctx)
}

// SetPracticalScore records the practical-task score ([0, 10], step 0.5).
func (s *Session) SetPracticalScore(ctx context.Context, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}
	if err := ValidatePracticalScore(score); err != nil {
		return err
	}

	s.state.PracticalScore = score
	return s.persist(ctx)
}

// SetPracticalLink records the link to the practical task.
func (s *Session) SetPracticalLink(ctx context.Context, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}

	s.state.PracticalLink = link
	return s.persist(ctx)
}

// SetNotes updates the reviewer's free-text notes. Notes stay editable
// through the feedback step.
func (s *Session) SetNotes(ctx context.Context, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase == entities.PhaseResultReady {
		return ErrInvalidPhase
	}

	s.state.ReviewerNotes = notes
	return s.persist(ctx)
}

// SetWorkbench stores the simulated compiler panel state. Cosmetic:
// persisted with the session but never scored.
func (s *Session) SetWorkbench(ctx context.Context, language, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}

	s.state.WorkbenchLanguage = language
	s.state.WorkbenchCode = code
	return s.persist(ctx)
}

// Tick advances the elapsed-time counter by one second. No-op while
// paused or after the session ends.
func (s *Session) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.IsPaused {
		return
	}

	s.state.ElapsedSeconds++
	if err := s.persist(ctx); err != nil {
		s.logger.Warn("persist tick", zap.Int64("session_id", s.state.SessionID), zap.Error(err))
	}
}

// Pause stops the timer. It has no effect on any other operation.
func (s *Session) Pause(ctx context.Context) error {
	return s.setPaused(ctx, true)
}

// Resume restarts the timer.
func (s *Session) Resume(ctx context.Context) error {
	return s.setPaused(ctx, false)
}

func (s *Session) setPaused(ctx context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.state.IsPaused = paused
	return s.persist(ctx)
}

// RequestSubmit validates the completion gates and moves the session
// from in_progress to awaiting_feedback. The unmarked-question check
// runs before the practical-link check.
func (s *Session) RequestSubmit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseInProgress {
		return ErrInvalidPhase
	}

	for i, q := range s.questions {
		if _, ok := s.state.Marks[q.ID]; !ok {
			return &QuestionsIncompleteError{Index: i}
		}
	}

	if strings.TrimSpace(s.state.PracticalLink) == "" {
		return ErrMissingPracticalLink
	}

	s.state.Phase = entities.PhaseAwaitingFeedback
	return s.persist(ctx)
}

// ConfirmFeedback freezes the final score and moves the session to
// result_ready. Notes may remain empty.
func (s *Session) ConfirmFeedback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseAwaitingFeedback {
		return ErrInvalidPhase
	}

	s.state.Phase = entities.PhaseResultReady
	final := s.buildFinalizeResult()
	s.final = &final

	return s.persist(ctx)
}

// CancelFeedback returns from awaiting_feedback to in_progress without
// touching any recorded data.
func (s *Session) CancelFeedback(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseAwaitingFeedback {
		return ErrInvalidPhase
	}

	s.state.Phase = entities.PhaseInProgress
	s.final = nil

	return s.persist(ctx)
}

// buildFinalizeResult assembles the terminal payload. Caller holds the lock.
func (s *Session) buildFinalizeResult() entities.FinalizeResult {
	score := s.state.Score(len(s.questions))

	status := entities.ReviewFailed
	if score.Passed {
		status = entities.ReviewCompleted
	}

	snap := s.state.ToSnapshot()

	return entities.FinalizeResult{
		Status: status,
		Scores: score,
		Notes:  s.state.ReviewerNotes,
		SessionData: entities.SessionData{
			Results:       snap.Results,
			CurrentIndex:  s.state.CurrentIndex,
			Seconds:       s.state.ElapsedSeconds,
			Code:          s.state.WorkbenchCode,
			Language:      s.state.WorkbenchLanguage,
			PracticalLink: s.state.PracticalLink,
		},
	}
}

// Finalize commits the session result to the review record in a single
// write. On success the snapshot is cleared and the session ends; on
// failure everything is left in place so the caller can retry.
func (s *Session) Finalize(ctx context.Context) (*entities.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.state.Phase != entities.PhaseResultReady {
		return nil, ErrInvalidPhase
	}

	if s.final == nil {
		// Session restored directly into result_ready: the score is a
		// pure function of the state, recomputing yields the frozen value.
		final := s.buildFinalizeResult()
		s.final = &final
	}

	updated, err := s.reviews.Complete(ctx, s.state.SessionID, *s.final)
	if err != nil {
		return nil, &FinalizeError{Err: err}
	}

	if err := s.snapshots.Clear(ctx, s.state.SessionID); err != nil {
		// The record is committed; a leftover snapshot is only noise
		// and will be purged by the janitor.
		s.logger.Warn("clear snapshot after finalize",
			zap.Int64("session_id", s.state.SessionID),
			zap.Error(err),
		)
	}

	s.review = updated
	s.close()

	return updated, nil
}

// Cancel abandons the session: the persisted snapshot is cleared and no
// backend write happens. Allowed from any phase before a successful
// finalize.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if err := s.snapshots.Clear(ctx, s.state.SessionID); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	s.close()
	return nil
}

// close marks the session terminal and stops the ticker. Caller holds the lock.
func (s *Session) close() {
	s.closed = true
	close(s.done)
}

// runTicker drives the elapsed-time counter while the session is live.
func (s *Session) runTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// SessionView is a read-only projection of a live session for callers.
type SessionView struct {
	SessionID         int64                   `json:"sessionId"`
	Phase             entities.Phase          `json:"phase"`
	CurrentIndex      int                     `json:"currentIndex"`
	QuestionCount     int                     `json:"questionCount"`
	Questions         []entities.Question     `json:"questions"`
	Marks             []entities.QuestionMark `json:"marks"`
	ElapsedSeconds    int                     `json:"elapsedSeconds"`
	IsPaused          bool                    `json:"isPaused"`
	PracticalScore    float64                 `json:"practicalScore"`
	PracticalLink     string                  `json:"practicalLink"`
	Notes             string                  `json:"notes"`
	WorkbenchLanguage string                  `json:"workbenchLanguage"`
	WorkbenchCode     string                  `json:"workbenchCode"`
	Score             entities.ScoreBreakdown `json:"score"`
}

// View returns the current state with the score recomputed.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state.ToSnapshot()

	return SessionView{
		SessionID:         s.state.SessionID,
		Phase:             s.state.Phase,
		CurrentIndex:      s.state.CurrentIndex,
		QuestionCount:     len(s.questions),
		Questions:         s.questions,
		Marks:             snap.Results,
		ElapsedSeconds:    s.state.ElapsedSeconds,
		IsPaused:          s.state.IsPaused,
		PracticalScore:    s.state.PracticalScore,
		PracticalLink:     s.state.PracticalLink,
		Notes:             s.state.ReviewerNotes,
		WorkbenchLanguage: s.state.WorkbenchLanguage,
		WorkbenchCode:     s.state.WorkbenchCode,
		Score:             s.state.Score(len(s.questions)),
	}
}

// SessionService owns the live sessions, at most one per review ID.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	baseCtx   context.Context
	catalog   QuestionCatalog
	snapshots SnapshotStore
	reviews   ReviewStore
	notifier  ResultNotifier
	logger    *zap.Logger
}

// NewSessionService creates a SessionService. ctx is the process
// lifetime: session tickers run against it, not against the request
// that happened to start the session.
func NewSessionService(
	ctx context.Context,
	catalog QuestionCatalog,
	snapshots SnapshotStore,
	reviews ReviewStore,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:  make(map[int64]*Session),
		baseCtx:   ctx,
		catalog:   catalog,
		snapshots: snapshots,
		reviews:   reviews,
		logger:    logger,
	}
}

// SetNotifier sets the result notifier (called after the notifier is created).
func (s *SessionService) SetNotifier(notifier ResultNotifier) {
	s.notifier = notifier
}

// Start opens (or resumes) the session for a scheduled review. A prior
// in-progress snapshot under the same ID is restored field by field;
// starting an already-live session returns the same handle.
func (s *SessionService) Start(ctx context.Context, reviewID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[reviewID]; ok {
		return sess, nil
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status == entities.ReviewCompleted {
		return nil, ErrReviewCompleted
	}

	moduleID, err := entities.ParseModuleID(review.Module)
	if err != nil {
		return nil, fmt.Errorf("review %d: %w", reviewID, err)
	}
	questions := s.catalog.GetByModule(moduleID)

	state := entities.NewSessionState(reviewID, moduleID)

	data, err := s.snapshots.Load(ctx, reviewID)
	switch {
	case err == nil:
		snap := entities.DecodeSnapshot(data)
		if snap.SessionID == 0 || snap.SessionID == reviewID {
			state.RestoreSnapshot(snap)
		}
	case errors.Is(err, repository.ErrSnapshotNotFound):
		// Fresh session.
	default:
		// Unreadable storage degrades to a fresh session rather than
		// blocking the reviewer.
		s.logger.Warn("load snapshot", zap.Int64("session_id", reviewID), zap.Error(err))
	}

	// Clamp the restored index against the current question set.
	if len(questions) == 0 {
		state.CurrentIndex = 0
	} else if state.CurrentIndex > len(questions)-1 {
		state.CurrentIndex = len(questions) - 1
	}

	if err := s.reviews.MarkActive(ctx, reviewID); err != nil {
		s.logger.Warn("mark review active", zap.Int64("review_id", reviewID), zap.Error(err))
	}

	sess := newSession(state, questions, review, s.snapshots, s.reviews, s.logger)

	sess.mu.Lock()
	if err := sess.persist(ctx); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.mu.Unlock()

	s.sessions[reviewID] = sess
	go sess.runTicker(s.baseCtx)
	go s.reapOnDone(sess)

	s.logger.Info("session started",
		zap.Int64("session_id", reviewID),
		zap.Int("module_id", moduleID),
		zap.Int("questions", len(questions)),
	)

	return sess, nil
}

// Get returns the live session for a review, or ErrSessionNotFound.
func (s *SessionService) Get(reviewID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[reviewID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Finalize commits the session result and, on success, announces it.
func (s *SessionService) Finalize(ctx context.Context, reviewID int64) (*entities.Review, error) {
	sess, err := s.Get(reviewID)
	if err != nil {
		return nil, err
	}

	updated, err := sess.Finalize(ctx)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		report, rerr := RenderReport(updated, s.catalog)
		if rerr != nil {
			s.logger.Warn("render report", zap.Int64("review_id", reviewID), zap.Error(rerr))
		} else if nerr := s.notifier.NotifyResult(updated, report); nerr != nil {
			s.logger.Warn("notify result", zap.Int64("review_id", reviewID), zap.Error(nerr))
		}
	}

	return updated, nil
}

// Cancel abandons the live session for a review.
func (s *SessionService) Cancel(ctx context.Context, reviewID int64) error {
	sess, err := s.Get(reviewID)
	if err != nil {
		return err
	}
	return sess.Cancel(ctx)
}

// reapOnDone drops the registry entry once the session ends.
func (s *SessionService) reapOnDone(sess *Session) {
	<-sess.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sess.ID()] == sess {
		delete(s.sessions, sess.ID())
	}
}
