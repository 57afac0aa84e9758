package service

import (
	"errors"
	"math"
)

var (
	ErrScoreOutOfRange  = errors.New("practical score must be between 0 and 10")
	ErrScoreNotHalfStep = errors.New("practical score must be a multiple of 0.5")
)

// ValidatePracticalScore checks the practical-task score against the
// slider contract: range [0, 10] in steps of 0.5.
func ValidatePracticalScore(score float64) error {
	if score < 0 || score > 10 {
		return ErrScoreOutOfRange
	}

	// Doubling maps valid scores onto whole numbers.
	doubled := score * 2
	if math.Abs(doubled-math.Round(doubled)) > 1e-9 {
		return ErrScoreNotHalfStep
	}

	return nil
}
