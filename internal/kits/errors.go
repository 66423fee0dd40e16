package kits

import "fmt"

// ErrKitNotFound is returned when a template name is not registered.
type ErrKitNotFound struct {
	Name string
}

func (e ErrKitNotFound) Error() string {
	return fmt.Sprintf("template kit %q not found", e.Name)
}

// ErrInvalidManifest is returned when kit.yaml is missing a required field
// or carries a malformed one.
type ErrInvalidManifest struct {
	Path   string
	Field  string
	Reason string
}

func (e ErrInvalidManifest) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid kit manifest %s: field %q: %s", e.Path, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid kit manifest: field %q: %s", e.Field, e.Reason)
}

// ErrManifestParse wraps a YAML decoding failure.
type ErrManifestParse struct {
	Path string
	Err  error
}

func (e ErrManifestParse) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e ErrManifestParse) Unwrap() error {
	return e.Err
}
