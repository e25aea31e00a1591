package services

import (
	"errors"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrGenreNotFound = errors.New("genre not found")
)

// PersistenceError is a failed store call. Its text is the store's own
// message so callers can surface it unchanged.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// storeError wraps err unless it is already classified.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) || errors.Is(err, ErrMovieNotFound) || errors.Is(err, ErrGenreNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
