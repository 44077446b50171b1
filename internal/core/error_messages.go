package core

// error_messages.go maps technical errors to short, coded notices for the
// analyst. Codes are grouped by category:
//
//	IN001   - Invalid menu choice
//	IN002   - Invalid column choice
//	IN003   - Invalid value choice
//	DATA001 - Dataset file not found
//	DATA002 - Dataset file could not be parsed
//	RUN001  - Scripted run timed out
//	RUN002  - Scripted run exited abnormally
//	ERR000  - Anything else
//
// Patterns are matched case-insensitively with strings.Contains against the
// error text. The first matching pattern of the error's Kind wins, so more
// specific patterns come first.

import (
	"strings"
)

// UserMessage provides a user-facing notice with guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Reference code
}

type errorPattern struct {
	kind    Kind
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		kind:    KindInputValidation,
		pattern: "column choice",
		msg: UserMessage{
			Message: "Invalid column choice.",
			Action:  "Pick a number from the column list",
			Code:    "IN002",
		},
	},
	{
		kind:    KindInputValidation,
		pattern: "value choice",
		msg: UserMessage{
			Message: "Invalid value choice.",
			Action:  "Pick a number from the value list",
			Code:    "IN003",
		},
	},
	{
		kind:    KindInputValidation,
		pattern: "",
		msg: UserMessage{
			Message: "Invalid choice.",
			Action:  "Enter one of the listed menu numbers",
			Code:    "IN001",
		},
	},
	{
		kind:    KindDataUnavailable,
		pattern: "no such file",
		msg: UserMessage{
			Message: "Dataset file not found",
			Action:  "Check DATA_DIR and the dataset file names",
			Code:    "DATA001",
		},
	},
	{
		kind:    KindDataUnavailable,
		pattern: "does not exist",
		msg: UserMessage{
			Message: "Dataset file not found",
			Action:  "Check DATA_DIR and the dataset file names",
			Code:    "DATA001",
		},
	},
	{
		kind:    KindDataUnavailable,
		pattern: "",
		msg: UserMessage{
			Message: "Dataset could not be read",
			Action:  "Ensure the file is a comma-separated CSV with a header row",
			Code:    "DATA002",
		},
	},
	{
		kind:    KindRunFailed,
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Scripted run timed out",
			Action:  "Raise REPORT_RUN_TIMEOUT or check the menu answers",
			Code:    "RUN001",
		},
	},
	{
		kind:    KindRunFailed,
		pattern: "",
		msg: UserMessage{
			Message: "Scripted run exited abnormally",
			Action:  "Run `cherictl filter` by hand with the same answers",
			Code:    "RUN002",
		},
	},
}

var defaultErrorMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Re-run with LOG_LEVEL=debug for details",
	Code:    "ERR000",
}

// Describe converts an error to a user-facing message.
// Returns an empty UserMessage for nil.
func Describe(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	kind := KindOf(err)
	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if p.kind != kind {
			continue
		}
		if p.pattern == "" || strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return defaultErrorMessage
}

// DescribeCode returns just the reference code for err.
func DescribeCode(err error) string {
	return Describe(err).Code
}
