package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Messages the backend uses for the authentication failures the classifier
// cares about. The synthetic expiry rejection reuses the backend wording so
// both flow through the same rules.
const (
	msgTokenExpired = "token expired"
	msgTokenInvalid = "token invalid"
	msgNoAuth       = "no valid authentication provided"
	msgServerError  = "internal server error"
)

var (
	// ErrTokenExpired matches the synthetic 401 produced when a token is
	// still expired after the liveness poll.
	ErrTokenExpired = errors.New(msgTokenExpired)

	// ErrTokenInvalid matches the backend's 401 for a malformed or rejected
	// token.
	ErrTokenInvalid = errors.New(msgTokenInvalid)
)

// ErrorResponse is the single error shape flowing out of the request
// pipeline. Transport failures, unparsable bodies and the locally generated
// expiry rejection are all normalized into it before reaching the caller.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Is allows errors.Is checks against ErrTokenExpired and ErrTokenInvalid
// without comparing struct pointers.
func (e *ErrorResponse) Is(target error) bool {
	switch target {
	case ErrTokenExpired:
		return e.Code == http.StatusUnauthorized && e.Message == msgTokenExpired
	case ErrTokenInvalid:
		return e.Code == http.StatusUnauthorized && e.Message == msgTokenInvalid
	}
	return false
}

// newErrorResponse normalizes a non-success HTTP response into an
// ErrorResponse. The body is used when it parses as one; otherwise the
// status line is synthesized into the message.
func newErrorResponse(status int, body []byte) *ErrorResponse {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Code != 0 {
		return &er
	}
	return &ErrorResponse{Code: status, Message: http.StatusText(status)}
}
