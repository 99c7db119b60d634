package question

import (
	"fmt"

	"smart-poll/poll-cli/internal"
)

type ErrUnsupportedKind struct {
	Kind string
}

func (e ErrUnsupportedKind) Error() string {
	return fmt.Sprintf("unsupported question type: %q", e.Kind)
}

func (e ErrUnsupportedKind) Unwrap() error {
	return internal.ErrInvalidRequestBody
}

type ErrAnswerTooLong struct {
	Limit int
	Given int
}

func (e ErrAnswerTooLong) Error() string {
	return fmt.Sprintf("answer exceeds maximum length, limit %d, got %d", e.Limit, e.Given)
}

func (e ErrAnswerTooLong) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrAnswerRequired struct {
	QuestionID int64
}

func (e ErrAnswerRequired) Error() string {
	return fmt.Sprintf("question %d is required but not answered", e.QuestionID)
}

func (e ErrAnswerRequired) Unwrap() error {
	return internal.ErrQuestionRequired
}

type ErrInvalidChoiceID struct {
	QuestionID int64
	ChoiceID   int64
}

func (e ErrInvalidChoiceID) Error() string {
	return fmt.Sprintf("choice %d not found for question %d", e.ChoiceID, e.QuestionID)
}

func (e ErrInvalidChoiceID) Unwrap() error {
	return internal.ErrValidationFailed
}
