package types

import "errors"

// Operation errors. Callers compare with errors.Is; producers wrap them with
// context using fmt.Errorf("...: %w", err).
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrParse      = errors.New("parse error")
	ErrIO         = errors.New("i/o error")
)
