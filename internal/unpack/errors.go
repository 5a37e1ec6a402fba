package unpack

import "errors"

// ErrDuplicateStudent indicates two submissions that clean to the same folder name.
var ErrDuplicateStudent = errors.New("duplicate student folder")
