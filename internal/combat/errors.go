package combat

import "fmt"

// Code is a machine-readable error code.
type Code string

const (
	CodeInsufficientActionPoints Code = "INSUFFICIENT_ACTION_POINTS"
	CodeMissingTarget            Code = "MISSING_TARGET"
	CodeUnknownEntry             Code = "UNKNOWN_ENTRY"
	CodeUnknownEnemy             Code = "UNKNOWN_ENEMY"
	CodeUnknownSkill             Code = "UNKNOWN_SKILL"
	CodeReadOnlyEntry            Code = "READ_ONLY_ENTRY"
	CodeEmptyName                Code = "EMPTY_NAME"
	CodeSessionNotActive         Code = "SESSION_NOT_ACTIVE"
)

// Error is a rejected intent. Every Error leaves the session unchanged and
// is recoverable: the operator corrects the input and resubmits.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Operator-facing message
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrInsufficientActionPoints indicates the actor cannot pay the declared cost.
	ErrInsufficientActionPoints = &Error{Code: CodeInsufficientActionPoints, Message: "insufficient action points"}
	// ErrMissingTarget indicates a damage-producing intent without a target.
	ErrMissingTarget = &Error{Code: CodeMissingTarget, Message: "a target is required for damage"}
	// ErrUnknownEntry indicates the log entry no longer exists.
	ErrUnknownEntry = &Error{Code: CodeUnknownEntry, Message: "unknown log entry"}
	// ErrUnknownEnemy indicates the combatant no longer exists.
	ErrUnknownEnemy = &Error{Code: CodeUnknownEnemy, Message: "unknown combatant"}
	// ErrUnknownSkill indicates the skill is not in the profile catalog.
	ErrUnknownSkill = &Error{Code: CodeUnknownSkill, Message: "unknown skill"}
	// ErrReadOnlyEntry indicates an attempt to modify a system-generated entry.
	ErrReadOnlyEntry = &Error{Code: CodeReadOnlyEntry, Message: "entry is read-only"}
	// ErrEmptyName indicates an enemy without a display name.
	ErrEmptyName = &Error{Code: CodeEmptyName, Message: "name is required"}
	// ErrSessionNotActive indicates the session has not started or has ended.
	ErrSessionNotActive = &Error{Code: CodeSessionNotActive, Message: "combat is not in progress"}
)

// errorf returns an error with the code of base and a formatted message.
func errorf(base *Error, format string, args ...any) *Error {
	return &Error{
		Code:    base.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// wrap returns an error with the code of base that wraps cause.
func wrap(base *Error, message string, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: message,
		Cause:   cause,
	}
}
