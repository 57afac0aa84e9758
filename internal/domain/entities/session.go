package entities

import "encoding/json"

// Phase is the workflow phase of an evaluation session.
type Phase string

const (
	PhaseInProgress       Phase = "in_progress"
	PhaseAwaitingFeedback Phase = "awaiting_feedback"
	PhaseResultReady      Phase = "result_ready"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseInProgress, PhaseAwaitingFeedback, PhaseResultReady:
		return true
	}
	return false
}

// PassThreshold is the minimum composite score required to pass.
const PassThreshold = 60.0

// SessionState is the aggregate state of one evaluation session.
// The session ID equals the review record ID it belongs to.
type SessionState struct {
	SessionID         int64
	ModuleID          int
	CurrentIndex      int
	Marks             map[int]QuestionMark // keyed by question ID
	ElapsedSeconds    int
	IsPaused          bool
	PracticalScore    float64 // [0, 10], step 0.5
	PracticalLink     string  // empty means unset
	ReviewerNotes     string
	WorkbenchLanguage string
	WorkbenchCode     string
	Phase             Phase
}

// NewSessionState returns a fresh session at question zero.
func NewSessionState(sessionID int64, moduleID int) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		ModuleID:  moduleID,
		Marks:     make(map[int]QuestionMark),
		Phase:     PhaseInProgress,
	}
}

// ScoreBreakdown is the derived score of a session. It is recomputed
// from marks and the practical score on every read, never stored.
type ScoreBreakdown struct {
	TheoreticalEarned int     `json:"theoretical"`
	TheoreticalMax    int     `json:"maxTheoretical"`
	PracticalScore    float64 `json:"practical"`
	Composite         float64 `json:"total"`
	Passed            bool    `json:"passed"`
}

// Score computes the weighted composite score over questionCount
// questions: theoretical 70%, practical 30%. A session with no
// questions scores only the practical part.
func (s *SessionState) Score(questionCount int) ScoreBreakdown {
	earned := 0
	for _, m := range s.Marks {
		earned += m.Score
	}

	maxTheoretical := questionCount * 10
	theoreticalPct := 0.0
	if maxTheoretical > 0 {
		theoreticalPct = float64(earned) / float64(maxTheoretical)
	}
	practicalPct := s.PracticalScore / 10

	composite := theoreticalPct*70 + practicalPct*30

	return ScoreBreakdown{
		TheoreticalEarned: earned,
		TheoreticalMax:    maxTheoretical,
		PracticalScore:    s.PracticalScore,
		Composite:         composite,
		Passed:            composite >= PassThreshold,
	}
}

// Snapshot is the persisted form of a session. Every field is optional
// on load; older snapshots may miss fields added later.
type Snapshot struct {
	SessionID     int64          `json:"sessionId"`
	CurrentIndex  int            `json:"currentIndex"`
	Results       []QuestionMark `json:"results"`
	PracticalMark float64        `json:"practicalMark"`
	PracticalLink string         `json:"practicalLink"`
	Seconds       int            `json:"seconds"`
	IsPaused      bool           `json:"isPaused"`
	Notes         string         `json:"notes"`
	Language      string         `json:"language"`
	Code          string         `json:"code"`
	Phase         Phase          `json:"phase"`
}

// ToSnapshot converts the session state to its persisted form.
// Marks are emitted in ascending question ID order so equal states
// serialize to equal bytes.
func (s *SessionState) ToSnapshot() Snapshot {
	results := make([]QuestionMark, 0, len(s.Marks))
	for _, m := range s.Marks {
		results = append(results, m)
	}
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j-1].QuestionID > results[j].QuestionID; j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}

	return Snapshot{
		SessionID:     s.SessionID,
		CurrentIndex:  s.CurrentIndex,
		Results:       results,
		PracticalMark: s.PracticalScore,
		PracticalLink: s.PracticalLink,
		Seconds:       s.ElapsedSeconds,
		IsPaused:      s.IsPaused,
		Notes:         s.ReviewerNotes,
		Language:      s.WorkbenchLanguage,
		Code:          s.WorkbenchCode,
		Phase:         s.Phase,
	}
}

// RestoreSnapshot applies a saved snapshot field by field, falling back
// to the fresh-session default for anything missing or malformed.
func (s *SessionState) RestoreSnapshot(snap Snapshot) {
	if snap.CurrentIndex > 0 {
		s.CurrentIndex = snap.CurrentIndex
	}
	for _, m := range snap.Results {
		if !m.Status.Valid() {
			continue
		}
		// Score is derived from the status; the stored value may be
		// from an older schema and is not trusted.
		s.Marks[m.QuestionID] = NewQuestionMark(m.QuestionID, m.Status)
	}
	if snap.PracticalMark >= 0 && snap.PracticalMark <= 10 {
		s.PracticalScore = snap.PracticalMark
	}
	s.PracticalLink = snap.PracticalLink
	if snap.Seconds > 0 {
		s.ElapsedSeconds = snap.Seconds
	}
	s.IsPaused = snap.IsPaused
	s.ReviewerNotes = snap.Notes
	s.WorkbenchLanguage = snap.Language
	s.WorkbenchCode = snap.Code
	if snap.Phase.Valid() {
		s.Phase = snap.Phase
	}
}

// DecodeSnapshot parses persisted snapshot JSON. Malformed data yields
// a zero snapshot, never an error: a corrupt snapshot must degrade to
// a fresh session rather than block it.
func DecodeSnapshot(data []byte) Snapshot {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}
	}
	return snap
}

// SessionData is the raw session dump embedded in a finalized review.
type SessionData struct {
	Results       []QuestionMark `json:"results"`
	CurrentIndex  int            `json:"currentIndex"`
	Seconds       int            `json:"seconds"`
	Code          string         `json:"code"`
	Language      string         `json:"language"`
	PracticalLink string         `json:"practicalLink"`
}

// FinalizeResult is the single terminal payload written to the review
// record when a session completes.
type FinalizeResult struct {
	Status      ReviewStatus   `json:"status"`
	Scores      ScoreBreakdown `json:"scores"`
	Notes       string         `json:"notes"`
	SessionData SessionData    `json:"session_data"`
}
