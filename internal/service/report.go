package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

var ErrReportUnavailable = errors.New("review has no recorded result yet")

// RenderReport builds the shareable plain-text evaluation report from a
// finalized review record.
func RenderReport(review *entities.Review, catalog QuestionCatalog) (string, error) {
	if review.Status != entities.ReviewCompleted && review.Status != entities.ReviewFailed {
		return "", ErrReportUnavailable
	}

	var scores entities.ScoreBreakdown
	if len(review.Scores) == 0 {
		return "", ErrReportUnavailable
	}
	if err := json.Unmarshal(review.Scores, &scores); err != nil {
		return "", fmt.Errorf("decode scores: %w", err)
	}

	var sessionData entities.SessionData
	if len(review.SessionData) > 0 {
		// A malformed session dump only costs the per-question section.
		_ = json.Unmarshal(review.SessionData, &sessionData)
	}

	statusByQuestion := make(map[int]entities.MarkStatus, len(sessionData.Results))
	for _, m := range sessionData.Results {
		statusByQuestion[m.QuestionID] = m.Status
	}

	result := "Failed"
	if review.Status == entities.ReviewCompleted {
		result = "Passed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Evaluation Report: %s\n", review.StudentName)
	fmt.Fprintf(&b, "Module: %s\n", review.Module)
	fmt.Fprintf(&b, "Result: %s (%.1f%%)\n\n", result, scores.Composite)

	writeSection := func(title string, status entities.MarkStatus) {
		var lines []string
		for _, q := range questionsForReview(review, catalog) {
			if statusByQuestion[q.ID] == status {
				lines = append(lines, "- "+q.Text)
			}
		}
		if len(lines) == 0 {
			return
		}
		b.WriteString(title + "\n---------\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	writeSection("Need Improvement", entities.MarkNeedsImprovement)
	writeSection("Incorrect / Pending Mastery", entities.MarkWrong)

	if review.Notes != "" {
		fmt.Fprintf(&b, "Feedback:\n%s\n", review.Notes)
	}

	return b.String(), nil
}

// questionsForReview resolves the module question set of a review,
// falling back to an empty set when the label does not parse.
func questionsForReview(review *entities.Review, catalog QuestionCatalog) []entities.Question {
	moduleID, err := entities.ParseModuleID(review.Module)
	if err != nil {
		return nil
	}
	return catalog.GetByModule(moduleID)
}
