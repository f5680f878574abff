package intake

import "fmt"

// ConfigurationError marks an operator-fixable misconfiguration (missing
// credentials or endpoints). Never retried automatically.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// DependencyError marks a suppression-read or persistence-write failure.
// The whole request is safe to retry: persistence is at-least-once.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
