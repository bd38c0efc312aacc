package wbp

import "errors"

var (
	// ErrInvalidInput reports unusable input data: empty chord sequence, more
	// than MaxBarCount bars, bad session content...
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateIdentity reports two different phrases sharing the same id,
	// which means the extraction logic is broken
	ErrDuplicateIdentity = errors.New("duplicate phrase identity")

	// ErrInternalConsistency reports a broken internal invariant
	ErrInternalConsistency = errors.New("internal consistency violation")
)
