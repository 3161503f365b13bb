package skiplist

import "fmt"

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// RetCode classifies an operation failure.
type RetCode uint64

const (
	RetCSuccess    RetCode = iota // 0: operation executed successfully
	RetCIoError                   // 1: file open, read, write or rename failed
	RetCParseError                // 2: malformed snapshot data
)

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCIoError:
		errorCode = "IoError"
	case RetCParseError:
		errorCode = "ParseError"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("SkipListError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}
