package service

import "errors"

var (
	ErrAlreadyExistingName = errors.New("reviewer name already used")
	ErrReviewerNotFound    = errors.New("reviewer not found")
	ErrInvalidSortColumn   = errors.New("invalid sort column")
)
