package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error with user-friendly messaging and remediation hints
type UserError struct {
	Title       string // Brief title of the error
	Message     string // Detailed error message
	Remediation string // What the user can do to fix it
	Cause       error  // Underlying error, if any
}

func (e *UserError) Error() string {
	var parts []string

	if e.Title != "" {
		parts = append(parts, e.Title)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Remediation != "" {
		parts = append(parts, fmt.Sprintf("💡 %s", e.Remediation))
	}

	return strings.Join(parts, "\n")
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// Common error constructors with built-in remediation

// NewCorruptBoardError reports a board file that could not be decoded. movedTo is
// where the unreadable file was set aside, empty if it stayed in place.
func NewCorruptBoardError(path, movedTo string, err error) *UserError {
	remediation := "The board was reset to empty. Run: fluxboard config doctor"
	if movedTo != "" {
		remediation = fmt.Sprintf("The unreadable file was moved to %s and the board starts empty", movedTo)
	}
	return &UserError{
		Title:       "❌ Corrupt Board File",
		Message:     fmt.Sprintf("Board file '%s' is not a valid board snapshot.", path),
		Remediation: remediation,
		Cause:       err,
	}
}

// NewUnreadableBoardError reports a board file that exists but could not be
// read. The file is left untouched and nothing is saved over it.
func NewUnreadableBoardError(path string, err error) *UserError {
	return &UserError{
		Title:       "❌ Board File Unreadable",
		Message:     fmt.Sprintf("Board file '%s' could not be read: %v", path, err),
		Remediation: "Changes made now will not be saved. Check the file's permissions and disk, then reopen",
		Cause:       err,
	}
}

func NewSaveError(path string, err error) *UserError {
	errStr := err.Error()
	var remediation string

	switch {
	case strings.Contains(errStr, "permission denied"):
		remediation = fmt.Sprintf("Check permissions on %s, or point data_path elsewhere with: fluxboard config set data_path <path>", path)
	case strings.Contains(errStr, "no space left"):
		remediation = "Free some disk space; changes are kept in memory until the next save"
	default:
		remediation = "Run with --verbose flag for more details"
	}

	return &UserError{
		Title:       "❌ Save Failed",
		Message:     fmt.Sprintf("Failed to write board to '%s': %s", path, errStr),
		Remediation: remediation,
		Cause:       err,
	}
}

func NewConfigError(operation string, err error) *UserError {
	var remediation string
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "permission denied"):
		remediation = "Check file permissions. Run: chmod 644 ~/.config/fluxboard/config.toml"
	case strings.Contains(errStr, "no such file"):
		remediation = "Run: fluxboard setup to create a configuration file"
	case strings.Contains(errStr, "decode") || strings.Contains(errStr, "parse"):
		remediation = "Configuration file format is invalid. Run: fluxboard config doctor"
	default:
		remediation = "Run: fluxboard config doctor to diagnose configuration issues"
	}

	return &UserError{
		Title:       "❌ Configuration Error",
		Message:     fmt.Sprintf("Failed to %s configuration: %s", operation, errStr),
		Remediation: remediation,
		Cause:       err,
	}
}

func NewInvalidPriorityError(input string) *UserError {
	return &UserError{
		Title:       "❌ Invalid Priority",
		Message:     fmt.Sprintf("Priority '%s' is not recognized.", input),
		Remediation: "Use 1/low, 2/medium or 3/high",
		Cause:       nil,
	}
}

func NewInvalidColumnError(input string) *UserError {
	return &UserError{
		Title:       "❌ Invalid Column",
		Message:     fmt.Sprintf("Column '%s' does not exist.", input),
		Remediation: "Available columns: todo, in-progress, done",
		Cause:       nil,
	}
}

func NewTaskNotFoundError(id string) *UserError {
	return &UserError{
		Title:       "❌ Task Not Found",
		Message:     fmt.Sprintf("No task with id '%s' is on the board.", id),
		Remediation: "Run: fluxboard list to see task ids",
		Cause:       nil,
	}
}

// Helper function to wrap existing errors with better messaging
func WrapWithContext(err error, context string) error {
	if userErr, ok := err.(*UserError); ok {
		// Already a user error, just return it
		return userErr
	}

	errStr := err.Error()

	switch context {
	case "config_load", "config_save":
		return NewConfigError(strings.TrimPrefix(context, "config_"), err)
	case "board_save":
		return NewSaveError("board file", err)
	default:
		// Generic wrapper that at least adds some structure
		return &UserError{
			Title:       "❌ Error",
			Message:     errStr,
			Remediation: "Run with --verbose flag for more details",
			Cause:       err,
		}
	}
}
