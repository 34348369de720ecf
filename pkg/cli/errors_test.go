package cli

import (
	"errors"
	"testing"

	"mercator-hq/pulse/pkg/config"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.listen_address",
		Message: "missing required field",
	}

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	expected := "command run failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "run",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestConfigErrorWithoutField(t *testing.T) {
	err := &ConfigError{Message: "file unreadable"}

	expected := "config error: file unreadable"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestWrapConfigError(t *testing.T) {
	t.Run("single field error keeps the field", func(t *testing.T) {
		cause := config.ValidationError{Errors: []config.FieldError{
			{Field: "poller.interval", Message: "interval must be positive"},
		}}
		err := WrapConfigError(cause)

		if err.Field != "poller.interval" {
			t.Errorf("Field = %q, want %q", err.Field, "poller.interval")
		}
		if err.Message != "interval must be positive" {
			t.Errorf("Message = %q, want %q", err.Message, "interval must be positive")
		}
		if !errors.As(err, new(config.ValidationError)) {
			t.Error("errors.As() should find the wrapped ValidationError")
		}
	})

	t.Run("multiple field errors keep the whole message", func(t *testing.T) {
		cause := config.ValidationError{Errors: []config.FieldError{
			{Field: "poller.interval", Message: "interval must be positive"},
			{Field: "metrics.path", Message: "metrics path is required"},
		}}
		err := WrapConfigError(cause)

		if err.Field != "" {
			t.Errorf("Field = %q, want empty", err.Field)
		}
		if err.Message != cause.Error() {
			t.Errorf("Message = %q, want %q", err.Message, cause.Error())
		}
	})

	t.Run("plain error", func(t *testing.T) {
		cause := errors.New("failed to read configuration file")
		err := WrapConfigError(cause)

		if !errors.Is(err, cause) {
			t.Error("errors.Is() should find the cause")
		}
		if err.Error() != "config error: failed to read configuration file" {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}
