package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the wizard. These provide consistent, checkable errors for
// the failures a controller can surface to the user.
var (
	ErrNoCourseContext      = errors.New("no course is active in this session")
	ErrNoSubmoduleVersion   = errors.New("submodules have not been generated for this module")
	ErrGenerationInProgress = errors.New("another module is already generating submodules")
	ErrNotConfirmed         = errors.New("deletion was not confirmed")
	ErrNoDraft              = errors.New("nothing is being edited")
	ErrIndexOutOfRange      = errors.New("no item at that position")
	ErrNotFound             = errors.New("requested resource not found")
)

// TransportError reports a failed call to the course service: either the request
// never completed or the service answered with a non-success status.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: course service returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError lists the required fields that were empty when a draft was submitted.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// StaleVersionError is returned when a cached submodule version no longer has any
// submodules behind it. The cached id has already been discarded when this is seen.
type StaleVersionError struct {
	ModuleID  string
	VersionID string
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("submodule version %s of module %s is empty", e.VersionID, e.ModuleID)
}

// IsStale reports whether err carries a StaleVersionError.
func IsStale(err error) bool {
	var stale *StaleVersionError
	return errors.As(err, &stale)
}
