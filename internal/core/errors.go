package core

import "errors"

// Sentinel errors for the case/evidence framework. Callers classify failures
// with errors.Is and decide at the operation boundary whether to abort; none
// of these terminate the session.
var (
	ErrNoActiveCase  = errors.New("no active case")
	ErrDuplicateCase = errors.New("case already exists")
	ErrCaseNotFound  = errors.New("case not found")
	ErrInvalidName   = errors.New("invalid case name")
	ErrInvalidInput  = errors.New("invalid input")
	ErrToolMissing   = errors.New("external tool not found")
	ErrToolFailed    = errors.New("external tool failed")
)
