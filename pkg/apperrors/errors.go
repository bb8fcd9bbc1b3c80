// Package apperrors defines the error taxonomy shared across the engine.
//
// Every component classifies its own failures into one of these sentinels
// and wraps detail around them with fmt.Errorf("...: %w", err). Callers use
// errors.Is to branch; the pipeline orchestrator only attaches the stage
// name, never reinterprets the kind.
package apperrors

import "errors"

var (
	// ErrNotFound is returned when a connection or saved object does not exist
	// or is not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint is violated, e.g. a
	// duplicate connection name for the same owner.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for malformed caller input, e.g. an empty
	// object name. Fatal; the caller must correct the input.
	ErrValidation = errors.New("validation failed")

	// ErrCredentialCorrupt is returned when a stored credential blob decrypts
	// but cannot be parsed into a usable service-account key.
	ErrCredentialCorrupt = errors.New("stored credential cannot be parsed")

	// ErrCredentialsKeyMismatch is returned when a credential blob was
	// encrypted with a different key than the one currently configured.
	ErrCredentialsKeyMismatch = errors.New("connection credentials were encrypted with a different key")

	// ErrObjectNotFound is returned when the warehouse reports no such
	// table or view for an introspection target.
	ErrObjectNotFound = errors.New("warehouse object not found")

	// ErrConnectionFailed is returned when the warehouse is unreachable or
	// rejects the credential. Callers may retry later.
	ErrConnectionFailed = errors.New("warehouse connection failed")

	// ErrQuotaExceeded is returned when the warehouse reports a quota or
	// billing limit during a call.
	ErrQuotaExceeded = errors.New("warehouse quota exceeded")

	// ErrUpstream is returned when the generation service is unreachable or
	// rate-limited. Callers may retry later; the engine itself never does.
	ErrUpstream = errors.New("generation service unavailable")

	// ErrNoStatementFound is returned when the generation output contains
	// nothing resembling a SQL statement. Callers should rephrase.
	ErrNoStatementFound = errors.New("no SQL statement found in generation output")
)
