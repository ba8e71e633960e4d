package cli

import (
	"errors"

	"github.com/roach88/sift/internal/dataset"
)

// Error codes for CLI responses. Dataset errors carry the codes of
// dataset.LoadError (E005, E006, E201-E203).
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInvalidArgs = "E002" // Invalid arguments
	ErrCodeConfig      = "E003" // Configuration error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // Database or file write error

	ErrCodeInvalidTypes  = "E301" // Malformed --types declaration
	ErrCodeQueryWarnings = "E302" // Query has static warnings

	ErrCodeTestFailed = "E401" // One or more scenarios failed
)

// errorCode picks the response code for err: the code of a dataset load
// error, else fallback.
func errorCode(err error, fallback string) string {
	var le *dataset.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return fallback
}
