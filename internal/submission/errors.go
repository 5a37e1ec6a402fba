package submission

import "errors"

// ErrMalformedName indicates an inner archive name without the first-surname separator.
var ErrMalformedName = errors.New("malformed submission name")

// ErrInvalidArchive indicates a file that is not a readable zip archive.
var ErrInvalidArchive = errors.New("invalid archive")

// ErrMissingTask indicates an outer archive name without a task<N> marker.
var ErrMissingTask = errors.New("missing task marker")
