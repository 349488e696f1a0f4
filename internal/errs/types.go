package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError means the requested offer, order, listing or integration
// does not exist.
type NotFoundError struct {
	ErrorMessage
}

// ValidationError covers malformed or missing input and wrong-role actions.
type ValidationError struct {
	ErrorMessage
}

// ConflictError means a state-machine precondition was violated, e.g.
// accepting an offer that is no longer pending.
type ConflictError struct {
	ErrorMessage
}

// AuthError means the caller could not be authenticated (bad or inactive
// API key, missing identity).
type AuthError struct {
	ErrorMessage
}

// ForbiddenError means the caller is authenticated but not allowed to act
// on this resource.
type ForbiddenError struct {
	ErrorMessage
}

// DatabaseError wraps storage failures with the operation that failed.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

// ExternalServiceError wraps failures talking to systems the platform does
// not control. Transient failures map to 503, the rest to 502.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
