// Package errors provides standardized error handling for the postdeck
// application. It defines common error types, constants, and helper
// functions for consistent error creation, wrapping, and handling
// across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Navigation error kinds
	RouteNotFound
	RenderFailed
	// Validation error kinds
	InvalidInput
	MissingField
	InvalidSchedule
	// Remote error kinds
	RemoteFailed
	RemoteUnavailable
	NotFound
	// Authentication error kinds
	Unauthorized
	// Stale-response error kinds
	StaleResponse
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// Common error constants for frequently occurring errors
var (
	ErrRouteNotFound = NewNavigationError("route not registered", "", RouteNotFound, nil)
	ErrUnauthorized  = NewAuthError("authentication required", nil)
	ErrStaleResponse = &ApplicationError{msg: "stale response discarded", kind: StaleResponse}
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// NavigationError represents errors raised while dispatching a route
type NavigationError struct {
	ApplicationError
	path string
}

// NewNavigationError creates a new navigation error
func NewNavigationError(msg string, path string, kind ErrorKind, err error) *NavigationError {
	return &NavigationError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the navigation error message
func (e *NavigationError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the route path associated with the error
func (e *NavigationError) Path() string {
	return e.path
}

// ValidationError represents client-side form validation failures that
// are caught before any network call is made
type ValidationError struct {
	ApplicationError
	field string
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, field string, kind ErrorKind, err error) *ValidationError {
	return &ValidationError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		field: field,
	}
}

// Error returns the validation error message
func (e *ValidationError) Error() string {
	if e.field != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.field, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.field)
	}
	return e.ApplicationError.Error()
}

// Field returns the form field associated with the error
func (e *ValidationError) Field() string {
	return e.field
}

// RemoteError represents a non-success response from the collection
// API. Message carries the server-supplied text verbatim so it can be
// surfaced to the user without inspecting transport details.
type RemoteError struct {
	ApplicationError
	operation string
	message   string
}

// NewRemoteError creates a new remote error carrying the server message
func NewRemoteError(operation, message string, kind ErrorKind, err error) *RemoteError {
	if message == "" {
		message = "request failed"
	}
	return &RemoteError{
		ApplicationError: ApplicationError{
			msg:  message,
			err:  err,
			kind: kind,
		},
		operation: operation,
		message:   message,
	}
}

// Error returns the remote error message
func (e *RemoteError) Error() string {
	if e.operation != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: operation=%s: %v", e.message, e.operation, e.err)
		}
		return fmt.Sprintf("%s: operation=%s", e.message, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the API operation associated with the error
func (e *RemoteError) Operation() string {
	return e.operation
}

// Message returns the server-supplied message on its own, suitable for
// a user-facing notification
func (e *RemoteError) Message() string {
	return e.message
}

// AuthError represents an authentication failure (a 401-equivalent
// response or a missing session)
type AuthError struct {
	ApplicationError
}

// NewAuthError creates a new authentication error
func NewAuthError(msg string, err error) *AuthError {
	return &AuthError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: Unauthorized,
		},
	}
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in the chain,
// or Unknown if the chain holds none
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// UserMessage extracts the most specific user-facing message from an
// error: the server message for remote errors, the error text for
// validation and authentication errors, and a generic fallback
// otherwise
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message()
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	return "request failed"
}

// IsRouteNotFound checks if the error is an unregistered-route error
func IsRouteNotFound(err error) bool {
	var navErr *NavigationError
	if errors.As(err, &navErr) {
		return navErr.Kind() == RouteNotFound
	}
	return false
}

// IsValidation checks if the error is a client-side validation error
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsRemote checks if the error is a remote collection-API error
func IsRemote(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}

// IsUnauthorized checks if the error is an authentication error
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	return KindOf(err) == Unauthorized
}

// IsStale checks if the error marks a discarded stale response
func IsStale(err error) bool {
	return KindOf(err) == StaleResponse
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}
