package javapkg

import "errors"

// ErrDecode indicates a source line none of the trial decoders accepted.
var ErrDecode = errors.New("decode error")

// ErrMarkerNotFound indicates a path without a root or boundary marker segment.
var ErrMarkerNotFound = errors.New("package marker not found")
