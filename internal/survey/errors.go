package survey

import "errors"

var (
	// ErrDimensionMismatch indicates bucket counts that do not line up with their weights.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrMissingSheet indicates a sheet index absent from the questionnaire table.
	ErrMissingSheet = errors.New("sheet index not found")
	// ErrNoResponses indicates a sheet row whose time buckets are all zero.
	ErrNoResponses = errors.New("no responses")
	// ErrMalformedTable indicates a CSV that does not follow the questionnaire layout.
	ErrMalformedTable = errors.New("malformed questionnaire table")
)
