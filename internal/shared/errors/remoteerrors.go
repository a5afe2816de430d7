package errors

import (
	"fmt"
	"net/http"
)

// Error types raised by the remote executor, the capacity allocator and the
// provisioning workflow. They share the AppError shape so handlers and
// workflows classify them uniformly.
const (
	ErrorTypeUnreachable       ErrorType = "unreachable"
	ErrorTypeAuthentication    ErrorType = "authentication_failed"
	ErrorTypeCommandFailed     ErrorType = "command_failed"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeNoCapacity        ErrorType = "no_capacity"
	ErrorTypeAlreadyExists     ErrorType = "already_exists"
	ErrorTypeSecretUnavailable ErrorType = "secret_unavailable"
)

// NewUnreachableError reports a failed reachability probe before any
// authentication was attempted.
func NewUnreachableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnreachable, http.StatusBadGateway, message, details...)
}

// NewAuthenticationError reports a rejected SSH authentication.
func NewAuthenticationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAuthentication, http.StatusBadGateway, message, details...)
}

// CommandError is a CommandFailed AppError carrying the remote exit code and
// the combined output captured before the command failed.
type CommandError struct {
	AppError
	ExitCode int    `json:"exit_code"`
	Output   string `json:"-"`
}

// Unwrap exposes the embedded AppError so errors.As classification works.
func (e *CommandError) Unwrap() error {
	return &e.AppError
}

// NewCommandFailedError reports a remote command that exited non-zero.
func NewCommandFailedError(exitCode int, output string) *CommandError {
	return &CommandError{
		AppError: AppError{
			Type:    ErrorTypeCommandFailed,
			Message: fmt.Sprintf("command failed with exit status %d", exitCode),
			Code:    http.StatusBadGateway,
		},
		ExitCode: exitCode,
		Output:   output,
	}
}

// NewTimeoutError reports a local wait that exceeded its deadline. The remote
// side effect may still have completed; callers must treat the outcome as
// unknown.
func NewTimeoutError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, details...)
}

// NewNoCapacityError reports that no eligible instance exists for a package.
func NewNoCapacityError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNoCapacity, http.StatusConflict, message, details...)
}

// NewAlreadyExistsError reports an idempotent no-op: the requested resource
// was already created by an earlier call.
func NewAlreadyExistsError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAlreadyExists, http.StatusConflict, message, details...)
}

// NewSecretUnavailableError reports a secret that could not be resolved or
// decrypted. Never silently substitute an empty string for a secret.
func NewSecretUnavailableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeSecretUnavailable, http.StatusInternalServerError, message, details...)
}

// IsUnreachableError checks if the error is an unreachable error
func IsUnreachableError(err error) bool {
	return isType(err, ErrorTypeUnreachable)
}

// IsTimeoutError checks if the error is a timeout error
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout)
}

// IsNoCapacityError checks if the error is a no-capacity error
func IsNoCapacityError(err error) bool {
	return isType(err, ErrorTypeNoCapacity)
}

// IsAlreadyExistsError checks if the error is an already-exists error
func IsAlreadyExistsError(err error) bool {
	return isType(err, ErrorTypeAlreadyExists)
}

// IsCommandFailedError checks if the error is a command-failed error
func IsCommandFailedError(err error) bool {
	return isType(err, ErrorTypeCommandFailed)
}

// IsSecretUnavailableError checks if the error is a secret-unavailable error
func IsSecretUnavailableError(err error) bool {
	return isType(err, ErrorTypeSecretUnavailable)
}
