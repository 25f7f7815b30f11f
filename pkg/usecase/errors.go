package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrCaseNotFound  = errors.New("case not found")
	ErrEmptyResponse = errors.New("generation returned no text")
)

// Context keys for error values
const (
	CaseIDKey = "case_id"
)
