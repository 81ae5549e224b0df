package models

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("invalid input")
	ErrDuplicateUser    = errors.New("username already exists")
	ErrWeakPassword     = errors.New("password must be at least 6 characters long")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUnknownUser      = errors.New("username not found")
	ErrBadPassword      = errors.New("incorrect password")
	ErrCorruptRecord    = errors.New("corrupt record")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrIO               = errors.New("i/o failure")
)

// ValidationError lists every problem found in a rejected input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
