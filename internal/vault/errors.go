package vault

import "errors"

var (
	ErrNotFound       = errors.New("secret not found")
	ErrBackendFailure = errors.New("secret backend failure")
	ErrEmptyValue     = errors.New("secret value is empty")
)
