package cli

import (
	"errors"
	"fmt"

	"mercator-hq/pulse/pkg/config"
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// WrapConfigError turns a configuration load error into a ConfigError. A
// validation error with a single field keeps that field.
func WrapConfigError(err error) *ConfigError {
	ce := &ConfigError{Message: err.Error(), Err: err}

	var ve config.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) == 1 {
		ce.Field = ve.Errors[0].Field
		ce.Message = ve.Errors[0].Message
	}
	return ce
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
