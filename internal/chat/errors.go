package chat

import "errors"

type ErrorCode string

const (
	ErrorCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrorCodeNotFound        ErrorCode = "not_found"
	ErrorCodeDeliveryFailure ErrorCode = "delivery_failure"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err carries a chat Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var chatErr *Error
	if errors.As(err, &chatErr) {
		return chatErr.Code == code
	}
	return false
}

var (
	ErrEmptyName   = newError(ErrorCodeInvalidArgument, "display name can't be empty", nil)
	ErrInvalidRoll = newError(ErrorCodeInvalidArgument, "Roll command is invalid", nil)
)
