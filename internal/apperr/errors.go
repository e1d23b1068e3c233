package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidMood     = errors.New("invalid mood")
	ErrInvalidDuration = errors.New("invalid duration")
)
