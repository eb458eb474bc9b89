package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/millennium/internal/domain"
)

var (
	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("request to store timed out")

	// ErrUnavailable indicates the store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// APIError is a non-2xx response from the auth or table API. Error returns
// the server's message so it can be shown as-is.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string

	// kind is the domain sentinel this response maps to, if any.
	kind error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("store returned status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

// errorBody covers both the table API ({message, code, details, hint}) and
// the auth API ({error, error_description} or {code, error_code, msg}).
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"`
	Details          any    `json:"details"`
	Hint             string `json:"hint"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		e.Message = domain.CoalesceStr(eb.ErrorDescription, eb.Msg, eb.Message, eb.Error)
		e.Code = eb.ErrorCode
		if e.Code == "" && eb.Code != nil {
			e.Code = fmt.Sprint(eb.Code)
		}
		if eb.Details != nil {
			e.Details = fmt.Sprint(eb.Details)
		}
		e.Hint = eb.Hint
	} else {
		e.Message = strings.TrimSpace(string(body))
	}

	if status == http.StatusUnauthorized {
		e.kind = domain.ErrNoSession
	}
	return e
}

// asAPIError extracts an *APIError from err.
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
