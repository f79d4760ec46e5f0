package config

import "fmt"

// ParseError reports a configuration file that could not be read as a
// document: malformed YAML/JSON, or a root value that is not a mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a structurally invalid document value, such as a
// requirement entry that is neither a string nor a mapping, or a merge
// between a mapping and a sequence.
type SchemaError struct {
	Key    string // dot path of the offending key, when known
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// EnvironmentNotFoundError reports a requested environment profile that no
// level in the inheritance chain defines.
type EnvironmentNotFoundError struct {
	Name string
}

func (e *EnvironmentNotFoundError) Error() string {
	return fmt.Sprintf("no environment named %q was found in the config (or parent configs)", e.Name)
}
