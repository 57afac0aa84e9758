package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

func finalizedReview(t *testing.T, status entities.ReviewStatus) *entities.Review {
	t.Helper()

	scores, err := json.Marshal(entities.ScoreBreakdown{
		TheoreticalEarned: 25,
		TheoreticalMax:    40,
		PracticalScore:    8,
		Composite:         67.75,
		Passed:            status == entities.ReviewCompleted,
	})
	if err != nil {
		t.Fatalf("marshal scores: %v", err)
	}

	sessionData, err := json.Marshal(entities.SessionData{
		Results: []entities.QuestionMark{
			{QuestionID: 1, Status: entities.MarkAnswered, Score: 10},
			{QuestionID: 2, Status: entities.MarkAnswered, Score: 10},
			{QuestionID: 3, Status: entities.MarkNeedsImprovement, Score: 5},
			{QuestionID: 4, Status: entities.MarkWrong, Score: 0},
		},
		PracticalLink: "https://tasks.example/42",
	})
	if err != nil {
		t.Fatalf("marshal session data: %v", err)
	}

	review := testReview()
	review.Status = status
	review.Scores = scores
	review.SessionData = sessionData
	review.Notes = "Revise memory layout before the next module."
	return review
}

func TestRenderReport(t *testing.T) {
	catalog := &fakeCatalog{questions: testCatalogQuestions()}
	review := finalizedReview(t, entities.ReviewCompleted)

	report, err := RenderReport(review, catalog)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	for _, want := range []string{
		"Evaluation Report: Asha",
		"Module: Module 1",
		"Result: Passed (67.8%)",
		"Need Improvement",
		"- arrays in memory",
		"Incorrect / Pending Mastery",
		"- pass by value vs reference",
		"Feedback:\nRevise memory layout before the next module.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Correctly answered questions do not get a section entry.
	if strings.Contains(report, "compiler vs interpreter") {
		t.Errorf("answered questions must not be listed:\n%s", report)
	}
}

func TestRenderReport_FailedResult(t *testing.T) {
	catalog := &fakeCatalog{questions: testCatalogQuestions()}
	review := finalizedReview(t, entities.ReviewFailed)

	report, err := RenderReport(review, catalog)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	if !strings.Contains(report, "Result: Failed") {
		t.Errorf("report should state Failed:\n%s", report)
	}
}

func TestRenderReport_Unavailable(t *testing.T) {
	catalog := &fakeCatalog{questions: testCatalogQuestions()}

	pending := testReview()
	if _, err := RenderReport(pending, catalog); !errors.Is(err, ErrReportUnavailable) {
		t.Errorf("pending review: error = %v, want ErrReportUnavailable", err)
	}

	noScores := testReview()
	noScores.Status = entities.ReviewCompleted
	if _, err := RenderReport(noScores, catalog); !errors.Is(err, ErrReportUnavailable) {
		t.Errorf("missing scores: error = %v, want ErrReportUnavailable", err)
	}
}

func TestValidatePracticalScore(t *testing.T) {
	valid := []float64{0, 0.5, 2.5, 7.5, 10}
	for _, score := range valid {
		if err := ValidatePracticalScore(score); err != nil {
			t.Errorf("ValidatePracticalScore(%v) error = %v", score, err)
		}
	}

	if err := ValidatePracticalScore(-0.5); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("ValidatePracticalScore(-0.5) error = %v, want ErrScoreOutOfRange", err)
	}
	if err := ValidatePracticalScore(10.5); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("ValidatePracticalScore(10.5) error = %v, want ErrScoreOutOfRange", err)
	}
	if err := ValidatePracticalScore(7.3); !errors.Is(err, ErrScoreNotHalfStep) {
		t.Errorf("ValidatePracticalScore(7.3) error = %v, want ErrScoreNotHalfStep", err)
	}
	if err := ValidatePracticalScore(3.75); !errors.Is(err, ErrScoreNotHalfStep) {
		t.Errorf("ValidatePracticalScore(3.75) error = %v, want ErrScoreNotHalfStep", err)
	}
}
