package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidPattern  = errors.New("invalid search pattern")
	ErrInvalidPath     = errors.New("invalid accessor path")
	ErrNodeNotFound    = errors.New("node not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeSearch     ErrorType = "search"
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParsing, Message: message, Err: err}
}

// NewSearchError creates a new error for a search query that cannot run
func NewSearchError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeSearch, Message: message, Err: err}
}

// NewNavigationError creates a new error for paths or nodes that cannot be reached
func NewNavigationError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeNavigation, Message: message, Err: err}
}

// NewExportError creates a new error related to copy and export
func NewExportError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExport, Message: message, Err: err}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// ParseError describes where a document failed to parse.
// Line and Column are 1-based; zero means unknown.
type ParseError struct {
	Message     string
	Line        int
	Column      int
	ContextLine string
	Filename    string
}

// Error implements error interface
func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Filename != "" {
		b.WriteString(e.Filename)
		b.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	} else if e.Filename != "" {
		b.WriteString(" ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap lets errors.Is match ErrInvalidJSON.
func (e *ParseError) Unwrap() error {
	return ErrInvalidJSON
}

// NewParseErrorAt builds a ParseError for a byte offset into contents.
func NewParseErrorAt(message string, contents []byte, offset int, filename string) *ParseError {
	if offset < 0 {
		offset = 0
	}
	if offset > len(contents) {
		offset = len(contents)
	}

	line, col := 1, 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if contents[i] == '\n' {
			line++
			col = 1
			lineStart = i + 1
			continue
		}
		col++
	}

	lineEnd := len(contents)
	if idx := strings.IndexByte(string(contents[lineStart:]), '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}

	return &ParseError{
		Message:     message,
		Line:        line,
		Column:      col,
		ContextLine: strings.TrimRight(string(contents[lineStart:lineEnd]), "\r"),
		Filename:    filename,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		msg := fmt.Sprintf("JSON parsing error: %s", parseErr.Error())
		if parseErr.ContextLine != "" {
			msg += "\n  " + parseErr.ContextLine
			if parseErr.Column > 0 {
				msg += "\n  " + strings.Repeat(" ", parseErr.Column-1) + "^"
			}
		}
		return msg
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeSearch:
			return fmt.Sprintf("Search error: %s", appErr.Message)
		case ErrorTypeNavigation:
			return fmt.Sprintf("Navigation error: %s", appErr.Message)
		case ErrorTypeExport:
			return fmt.Sprintf("Export error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}
