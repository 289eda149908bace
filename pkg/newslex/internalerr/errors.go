package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrArtifactExists = errors.New("artifact already exists")
)
