package core

// error_messages.go maps technical errors to user-facing messages with a
// short code that support staff can look up.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Not a CSV file
//	FILE003 - Empty file
//	FILE004 - No file selected
//	FILE005 - File could not be read
//	FILE006 - Unsupported export format
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: all import slots taken
//	IMP002 - Request cancelled
//	IMP003 - Request timed out
//	IMP004 - Brand not found
//
// # Currency Errors (CUR001-CUR099)
//
//	CUR001 - Unknown currency
//	CUR002 - Invalid amount
//	CUR003 - Invalid exchange rate
//	CUR004 - Conversion not configured
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused
//	DB002 - Connection reset
//	DB003 - Timeout
//	DB004 - Deadlock
//	DB005 - Price rejected by a check constraint
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// ERR000 is the fallback; the technical error is in the application log.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns must precede general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the price file by brand or remove unchanged rows",
			Code:    "FILE001",
		},
	},
	{
		pattern: "must be a .csv file",
		msg: UserMessage{
			Message: "Only CSV price files can be imported",
			Action:  "Export the prices again and upload the .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a price file with a header and at least one row",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "unreadable file",
		msg: UserMessage{
			Message: "The uploaded file could not be read",
			Action:  "Save the file again as CSV and retry",
			Code:    "FILE005",
		},
	},
	{
		pattern: "unsupported export format",
		msg: UserMessage{
			Message: "Export format is not supported",
			Action:  "Choose csv or xlsx",
			Code:    "FILE006",
		},
	},

	// Import errors
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Import a smaller file or try again later",
			Code:    "IMP003",
		},
	},
	{
		pattern: "brand not found",
		msg: UserMessage{
			Message: "Brand not found",
			Action:  "Check the brand in the address and try again",
			Code:    "IMP004",
		},
	},

	// Currency errors
	{
		pattern: "unknown currency",
		msg: UserMessage{
			Message: "Currency is not configured",
			Action:  "Pick one of the listed currencies",
			Code:    "CUR001",
		},
	},
	{
		pattern: "invalid amount",
		msg: UserMessage{
			Message: "Amount is not a number",
			Action:  "Enter the amount without currency symbols, e.g. 1250.00",
			Code:    "CUR002",
		},
	},
	{
		pattern: "invalid exchange rate",
		msg: UserMessage{
			Message: "A configured exchange rate is invalid",
			Action:  "Ask an administrator to correct the currency rates",
			Code:    "CUR003",
		},
	},
	{
		pattern: "currency conversion is not configured",
		msg: UserMessage{
			Message: "Currency conversion is not available",
			Action:  "Ask an administrator to set up currencies",
			Code:    "CUR004",
		},
	},

	// Database errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "A price was rejected by the catalog",
			Action:  "Prices must not be negative",
			Code:    "DB005",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with the message shown to users.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
