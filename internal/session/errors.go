package session

import "errors"

var (
	// ErrEmptyInput is returned when the buffer is empty, or when an
	// answer is submitted without an active problem.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidExpression is returned by Calculate when the buffer does
	// not evaluate.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrInvalidInput is returned by SubmitAnswer when the answer does not
	// evaluate.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWrongMode is returned by Calculate outside Calculate mode.
	ErrWrongMode = errors.New("wrong mode")

	// ErrUnknownLesson is returned when a lesson id is not on the shelf.
	ErrUnknownLesson = errors.New("unknown lesson")
)
