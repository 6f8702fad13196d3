package fscache

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, _, err := c.Attribute(path, "checksum")
//	if errors.Is(err, fscache.ErrAttributeCompute) {
//	    // The plugin failed; the attribute stays unset so a retry is possible
//	}
var (
	// ErrDuplicateAttribute indicates an attribute name was registered twice.
	ErrDuplicateAttribute = errors.New("attribute already registered")

	// ErrUnknownAttribute indicates a query or filter named an attribute that is not registered.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrAttributeCompute indicates a plugin failed to compute an attribute value.
	ErrAttributeCompute = errors.New("attribute computation failed")

	// ErrSerializationFormat indicates malformed input to a snapshot import.
	ErrSerializationFormat = errors.New("malformed cache snapshot")

	// ErrTraversalDepth indicates recursive directory materialization went deeper than allowed,
	// which usually means a symlink cycle.
	ErrTraversalDepth = errors.New("directory traversal too deep")

	// ErrSnapshotNotFound indicates no persisted snapshot exists under the requested name or path.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DuplicateAttributeError is returned by RegisterAttribute when the name is taken.
type DuplicateAttributeError struct {
	Name     string
	Existing string // type of the plugin already registered under Name
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("attribute plugin %q is already defined (by %s)", e.Name, e.Existing)
}

// Is reports whether target is ErrDuplicateAttribute.
func (e *DuplicateAttributeError) Is(target error) bool {
	return target == ErrDuplicateAttribute
}

// AttributeComputeError wraps a plugin failure with the path and attribute involved.
type AttributeComputeError struct {
	Path      string
	Attribute string
	Err       error
}

func (e *AttributeComputeError) Error() string {
	return fmt.Sprintf("compute attribute %q for %s: %v", e.Attribute, e.Path, e.Err)
}

func (e *AttributeComputeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrAttributeCompute.
func (e *AttributeComputeError) Is(target error) bool {
	return target == ErrAttributeCompute
}

// SerializationFormatError describes why a snapshot could not be imported or decoded.
type SerializationFormatError struct {
	Reason string
	Err    error
}

func (e *SerializationFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed cache snapshot: %s: %v", e.Reason, e.Err)
	}
	return "malformed cache snapshot: " + e.Reason
}

func (e *SerializationFormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSerializationFormat.
func (e *SerializationFormatError) Is(target error) bool {
	return target == ErrSerializationFormat
}

var usagePatterns = []string{
	"missing required argument",
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"invalid argument",
	"accepts ",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrDuplicateAttribute), errors.Is(err, ErrUnknownAttribute):
		return ExitUsageError
	case errors.Is(err, ErrSerializationFormat), errors.Is(err, ErrSnapshotNotFound):
		return ExitSnapshotError
	case errors.Is(err, ErrAttributeCompute):
		return ExitAttributeError
	case errors.Is(err, ErrTraversalDepth):
		return ExitTraversalError
	}

	// Command line mistakes reported by cobra or the argument validators
	errStr := err.Error()
	for _, pattern := range usagePatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
