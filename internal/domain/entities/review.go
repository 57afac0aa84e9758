package entities

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidModuleLabel = errors.New("invalid module label")

// ReviewStatus is the lifecycle status of a scheduled review record.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewActive    ReviewStatus = "active"
	ReviewCompleted ReviewStatus = "completed"
	ReviewFailed    ReviewStatus = "failed"
)

// Review is one scheduled evaluation of a student on a module.
// Scores and SessionData stay empty until the session is finalized.
type Review struct {
	ID          int64           `json:"id"`
	StudentName string          `json:"studentName"`
	Batch       string          `json:"batch"`
	Module      string          `json:"module"` // label, e.g. "Module 3"
	Status      ReviewStatus    `json:"status"`
	ScheduledAt time.Time       `json:"scheduledAt"`
	Scores      json.RawMessage `json:"scores,omitempty"`
	Notes       string          `json:"notes"`
	SessionData json.RawMessage `json:"sessionData,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ParseModuleID extracts the numeric module ID from a label like "Module 3".
func ParseModuleID(label string) (int, error) {
	parts := strings.Fields(label)
	if len(parts) < 2 {
		return 0, ErrInvalidModuleLabel
	}

	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, ErrInvalidModuleLabel
	}

	return id, nil
}
