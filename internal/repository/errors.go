package repository

import "errors"

var (
	// ErrCorrupt means a stored record exists but could not be decoded.
	ErrCorrupt = errors.New("repository: stored record is corrupt")
	// ErrAlreadyExists means Create found a record under the same id.
	ErrAlreadyExists = errors.New("repository: record already exists")
)
