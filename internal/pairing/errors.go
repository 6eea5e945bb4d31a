package pairing

import (
	"errors"
	"fmt"
)

// ErrInfeasible matches every generation failure.
// Callers that only need to know whether a draw exists use errors.Is.
var ErrInfeasible = errors.New("no valid pairing")

// ErrorCode categorizes generation failures.
type ErrorCode string

const (
	// CodeTooFewParticipants means the set has fewer than two participants.
	CodeTooFewParticipants ErrorCode = "TOO_FEW_PARTICIPANTS"

	// CodeInvalidRules means a participant's rule list failed ValidateRules.
	CodeInvalidRules ErrorCode = "INVALID_RULES"

	// CodeDanglingReference means a rule targets an id outside the set.
	CodeDanglingReference ErrorCode = "DANGLING_REFERENCE"

	// CodeExhaustedRetries means the randomized search gave up.
	// A solution may still exist.
	CodeExhaustedRetries ErrorCode = "EXHAUSTED_RETRIES"

	// CodeUnsatisfiable means exact matching proved no solution exists.
	CodeUnsatisfiable ErrorCode = "UNSATISFIABLE"
)

// GenerationError describes why a draw could not be produced.
type GenerationError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ParticipantID is the offending participant, when there is one.
	ParticipantID string

	// Attempts is the number of search attempts made (retry strategy only).
	Attempts int

	// Err is the underlying cause, such as a ValidateRules error.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.ParticipantID != "" {
		return fmt.Sprintf("%s: %s (participant=%s)", e.Code, e.Message, e.ParticipantID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes every GenerationError match ErrInfeasible.
func (e *GenerationError) Is(target error) bool {
	return target == ErrInfeasible
}

// CodeOf returns the failure code of err, or "" if err is not a GenerationError.
func CodeOf(err error) ErrorCode {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func tooFewError(n int) *GenerationError {
	return &GenerationError{
		Code:    CodeTooFewParticipants,
		Message: fmt.Sprintf("need at least 2 participants, have %d", n),
	}
}

func invalidRulesError(participantID string, err error) *GenerationError {
	return &GenerationError{
		Code:          CodeInvalidRules,
		Message:       err.Error(),
		ParticipantID: participantID,
		Err:           err,
	}
}

func danglingError(participantID, target string) *GenerationError {
	return &GenerationError{
		Code:          CodeDanglingReference,
		Message:       fmt.Sprintf("rule targets unknown participant %q", target),
		ParticipantID: participantID,
	}
}

func exhaustedError(attempts int) *GenerationError {
	return &GenerationError{
		Code:     CodeExhaustedRetries,
		Message:  fmt.Sprintf("no complete assignment found in %d attempts", attempts),
		Attempts: attempts,
	}
}

func unsatisfiableError(participantID string) *GenerationError {
	return &GenerationError{
		Code:          CodeUnsatisfiable,
		Message:       "rules leave no complete assignment",
		ParticipantID: participantID,
	}
}
