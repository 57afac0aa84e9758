package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionRepository provides access to the evaluation question catalog.
// The catalog is a static JSON file loaded once at startup; catalog
// order is file order and never changes while the process runs, so a
// session index stays meaningful across restores.
type QuestionRepository struct {
	questions []entities.Question
}

// NewQuestionRepository loads the question catalog from a JSON file.
func NewQuestionRepository(path string) (*QuestionRepository, error) {
	questions, err := loadCatalog(path)
	if err != nil {
		return nil, err
	}

	return &QuestionRepository{
		questions: questions,
	}, nil
}

// GetByModule returns the questions tagged with the given module ID,
// preserving catalog order.
func (r *QuestionRepository) GetByModule(moduleID int) []entities.Question {
	var result []entities.Question
	for _, q := range r.questions {
		if q.ModuleID == moduleID {
			result = append(result, q)
		}
	}
	return result
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(id int) (*entities.Question, error) {
	for i := range r.questions {
		if r.questions[i].ID == id {
			return &r.questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

// GetAll returns the full catalog in file order.
func (r *QuestionRepository) GetAll() []entities.Question {
	return r.questions
}

func loadCatalog(path string) ([]entities.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var questions []entities.Question
	if err = json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	if len(questions) == 0 {
		return nil, errors.New("question catalog is empty")
	}

	return questions, nil
}
