package domain

import "fmt"

// ConfigurationError reports an option outside its allowed bounds. It is
// returned before any database access.
type ConfigurationError struct {
	Option string
	Value  int
	Min    int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid option %s=%d: must be >= %d", e.Option, e.Value, e.Min)
}

// IOError wraps a failed read or query against the database. Any IOError
// aborts the whole run.
type IOError struct {
	Op         string
	Collection string
	Err        error
}

func (e *IOError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Collection, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatVersionError reports a persisted result newer than this engine
type FormatVersionError struct {
	Found     int
	Supported int
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("introspection result version %d is newer than supported version %d", e.Found, e.Supported)
}
