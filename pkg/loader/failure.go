package loader

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies how a load failed.
type Kind int

const (
	// NetworkError means no usable response: connection failure, DNS
	// failure, or a body read that broke mid-stream.
	NetworkError Kind = iota

	// HTTPStatusError means a response arrived with a non-success
	// status code.
	HTTPStatusError

	// Timeout means the watchdog fired before the load settled.
	Timeout

	// Aborted means the caller cancelled the load.
	Aborted
)

func (k Kind) String() string {
	switch k {
	case NetworkError:
		return "network error"
	case HTTPStatusError:
		return "http status error"
	case Timeout:
		return "timeout"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Failure is the classified outcome of a failed load.
type Failure struct {
	Kind    Kind
	Code    int // HTTP status for HTTPStatusError, 0 otherwise
	Message string
	Cause   error
}

func (f *Failure) Error() string {
	if f.Code != 0 {
		return fmt.Sprintf("loader: %s (%d): %s", f.Kind, f.Code, f.Message)
	}
	return fmt.Sprintf("loader: %s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// statusFailure classifies a response with a non-success status code.
func statusFailure(resp *http.Response) *Failure {
	text := http.StatusText(resp.StatusCode)
	if text == "" {
		text = "request failed"
	}
	return &Failure{
		Kind:    HTTPStatusError,
		Code:    resp.StatusCode,
		Message: text,
	}
}

// networkFailure classifies a transport-level error.
func networkFailure(err error) *Failure {
	return &Failure{
		Kind:    NetworkError,
		Message: err.Error(),
		Cause:   err,
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// parseContentRange parses a Content-Range header value.
// Returns start, end, total bytes. Total may be -1 if unknown.
func parseContentRange(header string) (start, end, total int64, err error) {
	// Format: bytes start-end/total or bytes start-end/*
	header = strings.TrimPrefix(header, "bytes ")
	parts := strings.Split(header, "/")
	if len(parts) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range format: %s", header)
	}

	rangeParts := strings.Split(parts[0], "-")
	if len(rangeParts) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid Content-Range format: %s", header)
	}

	start, err = strconv.ParseInt(rangeParts[0], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid start byte: %w", err)
	}

	end, err = strconv.ParseInt(rangeParts[1], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid end byte: %w", err)
	}

	if parts[1] == "*" {
		total = -1
	} else {
		total, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid total bytes: %w", err)
		}
	}

	return start, end, total, nil
}
