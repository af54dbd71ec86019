package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ModelUnreadable indicates a model file could not be parsed or uses an unsupported schema
	ModelUnreadable ErrorCode = "MODEL_UNREADABLE"
	// NoProjectElement indicates a model has zero or several IfcProject instances
	NoProjectElement ErrorCode = "NO_PROJECT_ELEMENT"
	// InvalidInput indicates a bad argument, flag or record field
	InvalidInput ErrorCode = "INVALID_INPUT"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// StoreFailure indicates the revision store rejected or lost a write
	StoreFailure ErrorCode = "STORE_FAILURE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. An AuditError matches the sentinel with the same code.
var (
	ErrModelUnreadable  = &AuditError{Code: ModelUnreadable}
	ErrNoProjectElement = &AuditError{Code: NoProjectElement}
	ErrInvalidInput     = &AuditError{Code: InvalidInput}
	ErrConfigInvalid    = &AuditError{Code: ConfigInvalid}
	ErrStoreFailure     = &AuditError{Code: StoreFailure}
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// AuditError represents an ifcaudit error with code, message, and suggestions
type AuditError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates an AuditError with the default fixes for its code.
func New(code ErrorCode, message string, cause error) *AuditError {
	return &AuditError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *AuditError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AuditError) Unwrap() error {
	return e.cause
}

// Is matches any AuditError carrying the same code.
func (e *AuditError) Is(target error) bool {
	t, ok := target.(*AuditError)
	return ok && t.Code == e.Code
}

// WithDetails adds details to the error
func (e *AuditError) WithDetails(details interface{}) *AuditError {
	e.Details = details
	return e
}

// HasCode reports whether err or anything it wraps is an AuditError with code.
func HasCode(err error, code ErrorCode) bool {
	var ae *AuditError
	for err != nil {
		if !stderrors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.cause
	}
	return false
}

// CodeOf returns the code of the outermost AuditError in err's chain, or
// InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ae *AuditError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ModelUnreadable: {
		{
			Type:        RunCommand,
			Command:     "ifcaudit info ${file}",
			Safe:        true,
			Description: "Check the file header and declared schema",
		},
	},
	NoProjectElement: {
		{
			Type:        OpenDocs,
			URL:         "https://standards.buildingsmart.org/IFC/RELEASE/IFC4/ADD2_TC1/HTML/link/ifcproject.htm",
			Description: "A model must contain exactly one IfcProject",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "ifcaudit config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
		{
			Type:        RunCommand,
			Command:     "ifcaudit config init --force",
			Safe:        false,
			Description: "Rewrite the configuration with defaults",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
