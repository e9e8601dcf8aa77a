package domain

import "errors"

var (
	// ErrNoQuestions is returned when the bank or category filter yields nothing to ask.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNothingToDo is returned when review or bookmark mode has an empty qualifying set.
	ErrNothingToDo = errors.New("nothing to do")
	// ErrUnknownMode indicates an unsupported session mode.
	ErrUnknownMode = errors.New("unknown session mode")
	// ErrUnknownExamType indicates an exam type with no spec.
	ErrUnknownExamType = errors.New("unknown exam type")
	// ErrSessionNotActive is returned for answer/advance outside an in-progress session.
	ErrSessionNotActive = errors.New("no session in progress")
	// ErrAlreadyAnswered is returned when the current question already has an answer.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing past an unanswered question.
	ErrNotAnswered = errors.New("question not answered")
	// ErrChoiceOutOfRange indicates a selected index outside the question's choices.
	ErrChoiceOutOfRange = errors.New("choice out of range")
	// ErrQuestionNotFound indicates a question id not present in the bank.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNotConfirmed is returned when a destructive action lacks confirmation.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrInvalidQuestion marks a bank record that breaks the question invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNothingToRetry is returned by retry before any session was started.
	ErrNothingToRetry = errors.New("no previous session to retry")
)
