package placeholder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies a normalized API failure.
type ErrorKind string

const (
	KindTimeout  ErrorKind = "timeout"
	KindHTTP     ErrorKind = "http"
	KindNetwork  ErrorKind = "network"
	KindCanceled ErrorKind = "canceled"
)

const (
	timeoutMessage = "Request timeout"
	networkMessage = "Network error"
	cancelMessage  = "Request cancelled"
	maxErrorBody   = 64 << 10
)

// APIError is the single error shape every request failure is converted into
// before it leaves the client.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Details string

	cause error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// UserMessage returns the text shown to the user for this failure.
func (e *APIError) UserMessage() string {
	return e.Error()
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// AsAPIError unwraps err into an *APIError when one is present in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorFromResponse builds the HTTP failure for a non-2xx response. A JSON body
// may override the message and carry details; anything else keeps the
// synthesized "HTTP <status> <text>" message.
func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		Kind:    KindHTTP,
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d %s", resp.StatusCode, statusText(resp)),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || !gjson.ValidBytes(raw) {
		return apiErr
	}
	parsed := gjson.ParseBytes(raw)
	if msg := parsed.Get("message"); msg.Exists() && msg.String() != "" {
		apiErr.Message = msg.String()
	}
	if details := parsed.Get("details"); details.Exists() {
		apiErr.Details = details.String()
	}
	return apiErr
}

// transportError classifies a failure that happened before or while reading a
// response. Deadlines become timeouts; everything else is a network error.
func transportError(ctx context.Context, err error) *APIError {
	if isTimeout(ctx, err) {
		return &APIError{
			Kind:    KindTimeout,
			Status:  http.StatusRequestTimeout,
			Message: timeoutMessage,
			cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{
			Kind:    KindCanceled,
			Message: cancelMessage,
			cause:   err,
		}
	}
	return requestError(err)
}

// requestError wraps a failure that happened before or after the exchange
// itself, such as an unencodable body or an undecodable response.
func requestError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Status:  0,
		Message: networkMessage,
		Details: err.Error(),
		cause:   err,
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
