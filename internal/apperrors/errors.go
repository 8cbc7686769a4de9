// Package apperrors carries domain failures across service and handler
// boundaries. Every rule violation in the portfolio core surfaces as an
// *Error with a Kind the HTTP layer maps to a status code.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnknown is the zero value for errors that did not originate
	// in the domain layer.
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindStateTransition
	KindMembershipRule
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindStateTransition:
		return "state transition"
	case KindMembershipRule:
		return "membership rule"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func StateTransitionf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStateTransition, Message: fmt.Sprintf(format, args...)}
}

func MembershipRulef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMembershipRule, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the domain kind of err, or KindUnknown when err was not
// produced by this package.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}
