package entities

// Question is a single catalog question belonging to one module.
// The catalog is loaded once at startup and never mutated.
type Question struct {
	ID       int    `json:"id"`
	ModuleID int    `json:"module_id"`
	Text     string `json:"text"`
	Answer   string `json:"answer"` // reference answer shown to the reviewer
}

// MarkStatus is the reviewer's qualitative judgment on one question.
type MarkStatus string

const (
	MarkAnswered         MarkStatus = "answered"
	MarkNeedsImprovement MarkStatus = "need-improvement"
	MarkWrong            MarkStatus = "wrong"
	MarkSkipped          MarkStatus = "skip"
)

// Valid reports whether s is one of the known mark statuses.
func (s MarkStatus) Valid() bool {
	switch s {
	case MarkAnswered, MarkNeedsImprovement, MarkWrong, MarkSkipped:
		return true
	}
	return false
}

// Score returns the fixed score derived from the status.
func (s MarkStatus) Score() int {
	switch s {
	case MarkAnswered:
		return 10
	case MarkNeedsImprovement:
		return 5
	default:
		return 0
	}
}

// QuestionMark records the judgment on one question. At most one mark
// exists per question within a session; re-marking replaces it.
type QuestionMark struct {
	QuestionID int        `json:"questionId"`
	Status     MarkStatus `json:"status"`
	Score      int        `json:"score"`
}

// NewQuestionMark creates a mark with the score derived from the status.
func NewQuestionMark(questionID int, status MarkStatus) QuestionMark {
	return QuestionMark{
		QuestionID: questionID,
		Status:     status,
		Score:      status.Score(),
	}
}
