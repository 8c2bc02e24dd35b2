/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package exitcode provides standardized exit codes for sitecheck
package exitcode

import "fmt"

// Exit codes for the sitecheck CLI
const (
	Success          = 0
	GeneralError     = 1
	ConfigError      = 2
	VerificationFail = 3
	FileSystemError  = 4
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case VerificationFail:
		return "Verification failed"
	case FileSystemError:
		return "File system error"
	default:
		return "Unknown error"
	}
}

// Error carries the exit code a command wants the process to end with.
type Error struct {
	Code int
	Err  error
}

// New wraps err with code.
func New(code int, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Errorf formats a message and wraps it with code.
func Errorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return String(e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
