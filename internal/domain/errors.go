package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidSkinType  = errors.New("invalid skin type")
	ErrInvalidSkinIssue = errors.New("invalid skin issue")
	ErrInvalidScores    = errors.New("invalid analysis scores")
	ErrInvalidRoute     = errors.New("invalid navigation route")
)

// IsValidationError reports whether err was caused by caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrInvalidSkinType) ||
		errors.Is(err, ErrInvalidSkinIssue) ||
		errors.Is(err, ErrInvalidScores) ||
		errors.Is(err, ErrInvalidRoute)
}
