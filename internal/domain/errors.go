package domain

import "fmt"

// The four expected, user-facing failure kinds. Callers render these;
// anything else is an internal collaborator failure.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// OutOfStockError names the offending book by title so the form can
// surface it.
type OutOfStockError struct {
	BookID string
	Title  string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("book %q is out of stock", e.Title)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }
