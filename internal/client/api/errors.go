package api

import "fmt"

// APIError is the structured failure body returned by the customer API:
// a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// RequestError is a transport-level failure: the request never completed.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a non-success response whose body could not be
// parsed as JSON.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (status %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// SubmissionError is a failed create request. Message carries the server's
// message field when present, otherwise a generic fallback.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	return e.Message
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
