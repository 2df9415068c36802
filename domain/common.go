package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// ValidationError carries every violated input rule at once so a form can
// highlight all offending fields in a single round trip.
type ValidationError struct {
	Violations []string
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// BusinessRuleError marks a state-dependent rule violation, detected only
// after fetching persisted state (e.g. quantity exceeding the pack size).
type BusinessRuleError struct {
	Rule string
}

func (e *BusinessRuleError) Error() string {
	return "business rule violated: " + e.Rule
}

// NotFoundError covers both a missing id and an id owned by another caller.
// The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// GatewayError wraps a persistence or storage failure. Not the caller's
// fault; safe to retry at a higher layer.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error during %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsBusinessRule(err error) bool {
	var be *BusinessRuleError
	return errors.As(err, &be)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsGateway(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
