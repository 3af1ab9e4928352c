package models

import "fmt"

// LoadError reports a missing or invalid artifact. Any LoadError leaves the
// service without a registry.
type LoadError struct {
	Variant string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s artifact %s: %v", e.Variant, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
