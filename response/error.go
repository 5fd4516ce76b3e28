package response

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Error is the error body returned by every API route
type Error struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"error"`
	Messages   []string    `json:"messages"`
	Result     interface{} `json:"result"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

func (e *Error) AddMessages(msgs ...string) *Error {
	e.Messages = append(e.Messages, msgs...)
	return e
}

func (e *Error) WithResult(result interface{}) *Error {
	e.Result = result
	return e
}

func makeError(status int) *Error {
	return &Error{
		StatusCode: status,
		Messages:   make([]string, 0),
		Result:     []string{},
	}
}

// -----------------------------------------------

func ErrUnexpected() *Error {
	return makeError(http.StatusInternalServerError).
		WithMessage("An unexpected error has occured")
}

func ErrBadRequest() *Error {
	return makeError(http.StatusBadRequest).
		WithMessage("Bad request")
}

func ErrUnauthorized() *Error {
	return makeError(http.StatusUnauthorized).
		WithMessage("Unauthorized")
}

func ErrNotFound() *Error {
	return makeError(http.StatusNotFound).
		WithMessage("Requested resources not found")
}

func ErrMethodNotAllowed() *Error {
	return makeError(http.StatusMethodNotAllowed).
		WithMessage("Method not allowed")
}

// ErrContentUnavailable is returned when the content catalog cannot be reached
func ErrContentUnavailable() *Error {
	return makeError(http.StatusServiceUnavailable).
		WithMessage("Subscription content is temporarily unavailable")
}

func ErrInvalidJson() *Error {
	return ErrBadRequest().AddMessages("Invalid JSON body")
}

// ErrValidation lists every failed field of a validator error
func ErrValidation(err error) *Error {
	e := ErrBadRequest()
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return e.AddMessages(err.Error())
	}
	for _, fe := range fieldErrors {
		e.AddMessages(fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return e
}

func ErrVerifyToken() *Error {
	return ErrUnexpected().AddMessages("Unable to verify login token")
}

func ErrNoBearer() *Error {
	return ErrUnauthorized().AddMessages("No valid Bearer token found in header")
}
