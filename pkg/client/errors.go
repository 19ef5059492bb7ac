package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrRequestBlocked is returned when an active back-off window is longer than the max wait.
	ErrRequestBlocked = errors.New("request blocked: rate limited")

	// ErrInvalidConfig is returned by New for an unusable configuration.
	ErrInvalidConfig = errors.New("invalid client config")
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classify maps a transport error or response status to an ErrorClass.
// Returns "" for successful responses.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}

// APIError is a non-2xx response, decoded from the API's JSON error body when present.
type APIError struct {
	StatusCode   int
	ErrorClass   ErrorClass
	Message      string
	RequestID    string
	ErrorCode    int
	SpecificCode int
	URL          string
	Body         []byte
	Err          error
}

type errorBody struct {
	Message          string `json:"message"`
	RequestID        string `json:"request_id"`
	ErrorCode        int    `json:"error_code"`
	SpecificCode     int    `json:"specific_code"`
	ValidationErrors []struct {
		Message string `json:"message"`
	} `json:"validation_errors"`
}

// newAPIError builds an APIError from a response status and body.
func newAPIError(statusCode int, status, url string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		ErrorClass: classify(statusCode, nil),
		Message:    status,
		URL:        url,
		Body:       body,
	}

	var decoded errorBody
	if len(body) > 0 && json.Unmarshal(body, &decoded) == nil {
		if decoded.Message != "" {
			apiErr.Message = decoded.Message
		}
		for _, v := range decoded.ValidationErrors {
			apiErr.Message += "; " + v.Message
		}
		apiErr.RequestID = decoded.RequestID
		apiErr.ErrorCode = decoded.ErrorCode
		apiErr.SpecificCode = decoded.SpecificCode
	}

	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("kontent %s error (status %d): %s", e.ErrorClass, e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += " [request " + e.RequestID + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err came from a 429 response or a blocked request.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRequestBlocked) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorClass == ErrorClassRateLimit
}
