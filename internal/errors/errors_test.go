package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name     string
		userErr  *UserError
		expected []string // Substrings that should be present
	}{
		{
			name: "complete error with all fields",
			userErr: &UserError{
				Title:       "❌ Test Error",
				Message:     "Something went wrong",
				Remediation: "Try running the fix",
				Cause:       fmt.Errorf("underlying cause"),
			},
			expected: []string{"❌ Test Error", "Something went wrong", "💡 Try running the fix"},
		},
		{
			name: "error without title",
			userErr: &UserError{
				Message:     "Just a message",
				Remediation: "Just a fix",
			},
			expected: []string{"Just a message", "💡 Just a fix"},
		},
		{
			name: "error without remediation",
			userErr: &UserError{
				Title:   "❌ Simple Error",
				Message: "Something failed",
			},
			expected: []string{"❌ Simple Error", "Something failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.userErr.Error()
			for _, expected := range tt.expected {
				if !strings.Contains(result, expected) {
					t.Errorf("Expected error message to contain %q, but got: %s", expected, result)
				}
			}
		})
	}
}

func TestNewCorruptBoardError(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")

	tests := []struct {
		name     string
		movedTo  string
		expected string
	}{
		{name: "moved aside", movedTo: "/data/board.json.corrupt", expected: "💡 The unreadable file was moved to /data/board.json.corrupt"},
		{name: "left in place", movedTo: "", expected: "💡 The board was reset to empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCorruptBoardError("/data/board.json", tt.movedTo, cause)
			result := err.Error()

			for _, part := range []string{"❌ Corrupt Board File", "Board file '/data/board.json'", tt.expected} {
				if !strings.Contains(result, part) {
					t.Errorf("Expected error message to contain %q, but got: %s", part, result)
				}
			}
			if err.Unwrap() != cause {
				t.Errorf("Expected Unwrap() to return %v, got %v", cause, err.Unwrap())
			}
		})
	}
}

func TestNewUnreadableBoardError(t *testing.T) {
	cause := fmt.Errorf("read board.json: input/output error")
	err := NewUnreadableBoardError("/data/board.json", cause)

	result := err.Error()
	for _, part := range []string{"❌ Board File Unreadable", "'/data/board.json'", "input/output error", "will not be saved"} {
		if !strings.Contains(result, part) {
			t.Errorf("Expected error message to contain %q, but got: %s", part, result)
		}
	}
	if err.Unwrap() != cause {
		t.Errorf("Expected Unwrap() to return %v, got %v", cause, err.Unwrap())
	}
}

func TestNewSaveError(t *testing.T) {
	tests := []struct {
		name                string
		cause               error
		expectedRemediation string
	}{
		{
			name:                "permission denied",
			cause:               fmt.Errorf("open /x/board.json: permission denied"),
			expectedRemediation: "fluxboard config set data_path",
		},
		{
			name:                "disk full",
			cause:               fmt.Errorf("write: no space left on device"),
			expectedRemediation: "Free some disk space",
		},
		{
			name:                "generic error",
			cause:               fmt.Errorf("some other error"),
			expectedRemediation: "--verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSaveError("/x/board.json", tt.cause).Error()

			if !strings.Contains(result, "❌ Save Failed") {
				t.Errorf("Expected error to contain Save Failed, got: %s", result)
			}
			if !strings.Contains(result, tt.expectedRemediation) {
				t.Errorf("Expected error to contain %q, got: %s", tt.expectedRemediation, result)
			}
		})
	}
}

func TestNewConfigError(t *testing.T) {
	tests := []struct {
		cause               string
		expectedRemediation string
	}{
		{"open config.toml: permission denied", "chmod 644"},
		{"open config.toml: no such file or directory", "fluxboard setup"},
		{"toml: parse error at line 3", "format is invalid"},
		{"boom", "fluxboard config doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.cause, func(t *testing.T) {
			result := NewConfigError("load", fmt.Errorf("%s", tt.cause)).Error()
			if !strings.Contains(result, "Failed to load configuration") {
				t.Errorf("Expected operation in message, got: %s", result)
			}
			if !strings.Contains(result, tt.expectedRemediation) {
				t.Errorf("Expected error to contain %q, got: %s", tt.expectedRemediation, result)
			}
		})
	}
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *UserError
		expected []string
	}{
		{
			name:     "invalid priority",
			err:      NewInvalidPriorityError("urgent"),
			expected: []string{"❌ Invalid Priority", "'urgent'", "💡 Use 1/low"},
		},
		{
			name:     "invalid column",
			err:      NewInvalidColumnError("archive"),
			expected: []string{"❌ Invalid Column", "'archive'", "todo, in-progress, done"},
		},
		{
			name:     "task not found",
			err:      NewTaskNotFoundError("abc123"),
			expected: []string{"❌ Task Not Found", "'abc123'", "fluxboard list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			for _, part := range tt.expected {
				if !strings.Contains(result, part) {
					t.Errorf("Expected error message to contain %q, but got: %s", part, result)
				}
			}
			if tt.err.Unwrap() != nil {
				t.Errorf("Expected no cause, got %v", tt.err.Unwrap())
			}
		})
	}
}

func TestWrapWithContext(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		expected string
	}{
		{
			name:     "config_load context",
			err:      fmt.Errorf("file not found"),
			context:  "config_load",
			expected: "Failed to load configuration",
		},
		{
			name:     "config_save context",
			err:      fmt.Errorf("file not found"),
			context:  "config_save",
			expected: "Failed to save configuration",
		},
		{
			name:     "board_save context",
			err:      fmt.Errorf("disk on fire"),
			context:  "board_save",
			expected: "❌ Save Failed",
		},
		{
			name:     "generic context",
			err:      fmt.Errorf("unknown error"),
			context:  "unknown",
			expected: "❌ Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapWithContext(tt.err, tt.context)
			result := wrapped.Error()

			if !strings.Contains(result, tt.expected) {
				t.Errorf("Expected wrapped error to contain %q, got: %s", tt.expected, result)
			}
		})
	}
}

func TestWrapWithContext_AlreadyUserError(t *testing.T) {
	// Test that wrapping a UserError returns it unchanged
	original := NewTaskNotFoundError("x")
	wrapped := WrapWithContext(original, "some_context")

	if wrapped != original {
		t.Error("Expected WrapWithContext to return the same UserError unchanged")
	}
}
