package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

func Combine(errs ...error) error {
	var errText string
	for _, err := range errs {
		if err != nil {
			if errText == "" {
				errText = err.Error()
			} else {
				errText += ", " + err.Error()
			}
		}
	}
	if errText != "" {
		return errors.New(errText)
	}
	return nil
}

// NotFoundError is returned when the addressed raffle or user does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// ForbiddenError is returned when the caller is not the raffle's owner.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string {
	return e.Msg
}

// InvalidStateError is returned when an operation is not legal in the
// raffle's current lifecycle state.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string {
	return e.Msg
}

// ValidationError is returned for malformed input, before the store is
// touched.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// EmptyPoolError is returned when a draw is attempted with zero sold tickets.
type EmptyPoolError struct {
	Msg string
}

func (e *EmptyPoolError) Error() string {
	return e.Msg
}

// ConflictError names the requested numbers that are already sold, so the
// client can re-render the pool.
type ConflictError struct {
	Numbers []int
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Numbers))
	for _, n := range e.Numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return fmt.Sprintf("Os números %s já foram vendidos.", strings.Join(parts, ", "))
}
