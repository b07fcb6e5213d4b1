package core

import "errors"

// Common errors.
var (
	// ErrValidation marks user input that failed the non-empty text/category rule.
	ErrValidation = errors.New("validation failed")
	// ErrFormat marks an import or remote payload that does not have the expected shape.
	ErrFormat = errors.New("invalid format")
	// ErrCorruptData marks a persisted slot that exists but cannot be parsed.
	ErrCorruptData = errors.New("corrupt data")
	// ErrNetwork marks a failed fetch or push against the remote source.
	ErrNetwork = errors.New("network error")
	// ErrReadOnly is returned by slot adapters opened in read-only mode.
	ErrReadOnly = errors.New("store is in read-only mode")
)
