package service

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the services. Handlers translate them to HTTP
// status codes; the messages are safe to display.
var (
	// ErrUserIDTaken indicates the chosen identifier is already registered.
	ErrUserIDTaken = errors.New("this id is already registered")
	// ErrEmailTaken indicates the email address is already registered.
	ErrEmailTaken = errors.New("this email is already registered")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrStudentNotFound indicates the referenced student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrInvalidCredentials indicates a password mismatch on login.
	ErrInvalidCredentials = errors.New("incorrect password")
	// ErrAssignmentNotFound indicates the referenced assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrNotAssignmentOwner indicates the caller does not own the assignment.
	ErrNotAssignmentOwner = errors.New("assignment belongs to another teacher")
	// ErrNotificationNotFound indicates the referenced notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidationError reports a malformed or missing input field with a
// displayable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func requiredFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("the %s field is required", field)}
}
