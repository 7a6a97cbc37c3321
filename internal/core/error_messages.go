// Error Codes Reference
//
// User-facing errors carry a short code that users can quote to support.
// Codes are grouped by category:
//
// # Query Errors
//
//	PAGE001 - Invalid page: page number and size must be at least 1
//	          Action: Use page=1 or higher and a positive page size
//	          Matches: table.ErrInvalidPage
//
//	ID001   - Invalid id: a row identifier is not a whole number
//	          Action: Refresh the table and try again
//	          Matches: ErrInvalidID
//
// # Selection Errors
//
//	SEL001  - Invalid selection: selection mode is not "ids" or "filter"
//	          Action: Choose rows or use the current filter
//	          Matches: ErrInvalidSelection
//
//	CONF001 - Confirmation required: the delete would clear the whole table
//	          Action: Confirm the delete in the dialog
//	          Matches: ErrConfirmationRequired, "confirmation"
//
// # Table Errors
//
//	TBL001  - Unknown table: no table is registered under the key
//	          Action: Verify the table name is correct
//	          Matches: ErrUnknownTable, "unknown table", "table not found"
//
// # Request Errors
//
//	RATE001 - Rate limited: too many requests from one client
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
//	AUTH001 - Unauthorized: missing or invalid API key
//	          Action: Provide a valid X-API-Key header
//	          Patterns: "unauthorized", "api key"
//
//	EXP001  - Export busy: every export slot is taken
//	          Action: Try the export again in a few seconds
//	          Matches: ErrTooManyExports
//
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//	          Patterns: "context canceled", "context deadline exceeded"
//
// # Seed Errors
//
//	SEED001 - Seed data could not be loaded
//	          Patterns: "seed", "connection refused"
//
// # Default Error (ERR000)
//
//	ERR000  - Unknown error: An unexpected error occurred
//	          Action: Please try again or contact support
//
// Sentinel errors are checked with errors.Is first. Anything else is matched
// case-insensitively against the patterns below; the first match wins.

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tablekit/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgInvalidPage = UserMessage{
		Message: "Page number and page size must be at least 1",
		Action:  "Use page=1 or higher and a positive page size",
		Code:    "PAGE001",
	}
	msgInvalidID = UserMessage{
		Message: "Row identifier is not valid",
		Action:  "Refresh the table and try again",
		Code:    "ID001",
	}
	msgInvalidSelection = UserMessage{
		Message: "Selection mode must be \"ids\" or \"filter\"",
		Action:  "Select rows or use the current filter",
		Code:    "SEL001",
	}
	msgConfirmation = UserMessage{
		Message: "This delete would remove every row in the table",
		Action:  "Confirm the delete in the dialog to continue",
		Code:    "CONF001",
	}
	msgUnknownTable = UserMessage{
		Message: "Table not found",
		Action:  "Verify the table name is correct",
		Code:    "TBL001",
	}
	msgExportBusy = UserMessage{
		Message: "Too many exports are running",
		Action:  "Try the export again in a few seconds",
		Code:    "EXP001",
	}
)

// sentinelMessages is checked before the text patterns.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{table.ErrInvalidPage, msgInvalidPage},
	{ErrInvalidID, msgInvalidID},
	{ErrInvalidSelection, msgInvalidSelection},
	{ErrConfirmationRequired, msgConfirmation},
	{ErrUnknownTable, msgUnknownTable},
	{ErrTooManyExports, msgExportBusy},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages. Order matters: more specific patterns come first.
var errorPatterns = []errorPattern{
	{pattern: "confirmation", msg: msgConfirmation},
	{pattern: "unknown table", msg: msgUnknownTable},
	{pattern: "table not found", msg: msgUnknownTable},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "unauthorized",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Provide a valid X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Provide a valid X-API-Key header",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "seed",
		msg: UserMessage{
			Message: "Seed data could not be loaded",
			Action:  "Check SEED_FILE or DATABASE_URL",
			Code:    "SEED001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the seed database",
			Action:  "Check DATABASE_URL or start without it",
			Code:    "SEED001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check application logs for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("find users: %w", table.ErrInvalidPage))
//	// msg.Code == "PAGE001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps a technical error to a UserError. Returns nil if err
// is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
