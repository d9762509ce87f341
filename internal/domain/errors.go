package domain

import "fmt"

// Error types for consistent error handling across the API.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates missing or malformed required input.
// Details lists what the caller must supply.
type ErrValidation struct {
	Message string
	Details string
}

func (e *ErrValidation) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// ErrConfiguration indicates a required external credential or setting
// is absent. Never echoes the value, only which credential is missing.
type ErrConfiguration struct {
	Name string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("%s not configured", e.Name)
}

// ErrUpstream indicates a non-2xx response from an external collaborator
// (record store, messaging provider, vision API). Status and Details carry
// the provider's own status code and body for diagnostics.
type ErrUpstream struct {
	Service string
	Status  int
	Details string
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Details)
}

// ErrParse indicates the vision API answered but its payload was not
// the JSON we asked for. Non-fatal: Raw is surfaced so the caller can
// still use the text.
type ErrParse struct {
	Raw string
}

func (e *ErrParse) Error() string {
	return "could not parse extraction"
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}
