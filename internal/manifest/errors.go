package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource is the cause reported when a manifest has no FROM directive.
	ErrMissingSource = errors.New("manifest has no source-reference (FROM) directive")
	// ErrSealed is the cause reported when adding to a manifest that was already written.
	ErrSealed = errors.New("manifest already written")
)

// ConfigError reports an invalid directive or directive sequence.
type ConfigError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind != "" {
		return fmt.Sprintf("manifest config: %s: %s", e.Kind, msg)
	}
	return "manifest config: " + msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IOError reports a failure to persist a manifest.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// IsIOError reports whether err is (or wraps) an IOError.
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// ParseError reports a malformed Modelfile.
type ParseError struct {
	LineNumber int
	Msg        string
	// Err is the underlying cause, e.g. a *ConfigError from Add.
	Err error
}

func (e *ParseError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("(line %d): %s", e.LineNumber, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }
