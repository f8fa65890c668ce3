// Package core provides the classification and aggregation logic for museum object counts.
//
// # Error Codes Reference
//
// This file defines operator-facing error messages with codes for support reference.
// When a run fails, the operator can quote the code to support staff
// for faster diagnosis.
//
// # Output Errors (OUT001-OUT099)
//
//	OUT001 - Write failed: The summary file could not be written
//	         Action: Choose a folder you can write to and try again
//	         Patterns: "could not write"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum upload size
//	FILE002 - Invalid CSV: File is not a valid delimited table
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The file has no header row
//	FILE006 - Not found: The file does not exist
//	FILE007 - Permission denied: The file cannot be opened
//	FILE008 - Read failed: Any other read failure
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL004 - Missing column: Required column is missing from the master file
//	         Patterns: "missing required columns"
//
// # Lookup Warnings (LKP001-LKP099)
//
//	LKP001 - Lookup columns missing: Region mapping was skipped
//
// # Result Errors (RES001-RES099)
//
//	RES001 - No dated records: No rows remain after computing decades
//	RES002 - No groups: No rows produced after grouping
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The operator declined a required prompt
//	RUN002 - Request cancelled: The request was cancelled
//	RUN003 - Request timeout: The request timed out
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Write failures come first: their causes ("permission denied") overlap the read patterns.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Output Errors
	// =========================================================================
	{
		pattern: "could not write",
		msg: UserMessage{
			Message: "The summary file could not be written",
			Action:  "Choose a folder you can write to and try again",
			Code:    "OUT001",
		},
	},

	// =========================================================================
	// File Errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum upload size",
			Action:  "Run the command line tool for very large exports",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Check that the file has a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The file does not exist",
			Action:  "Check the path and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file cannot be opened",
			Action:  "Check the file permissions",
			Code:    "FILE007",
		},
	},
	{
		pattern: "could not read",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Save the file as UTF-8 CSV and try again",
			Code:    "FILE008",
		},
	},

	// =========================================================================
	// Validation and Lookup
	// =========================================================================
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required column is missing from the master file",
			Action:  "Check the column names or set the MASTER_*_COL variables",
			Code:    "VAL004",
		},
	},
	{
		pattern: "lookup columns missing",
		msg: UserMessage{
			Message: "The region lookup file has unexpected columns",
			Action:  "Region mapping was skipped; check LOOKUP_COUNTRY_COL and LOOKUP_REGION_COL",
			Code:    "LKP001",
		},
	},

	// =========================================================================
	// Empty Results
	// =========================================================================
	{
		pattern: msgNoDecades,
		msg: UserMessage{
			Message: "No rows remain after computing decades within the valid range",
			Action:  "Check the start and end year columns",
			Code:    "RES001",
		},
	},
	{
		pattern: msgNoGroups,
		msg: UserMessage{
			Message: "No rows produced after grouping",
			Action:  "Check the master file contents",
			Code:    "RES002",
		},
	},

	// =========================================================================
	// Run Errors
	// =========================================================================
	{
		pattern: "cancelled by operator",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start a new run when ready",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "RUN003",
		},
	},

	// =========================================================================
	// Database Errors (history and publishing)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
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

// IsUserFacing reports whether err matches a known pattern
// (anything but the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
