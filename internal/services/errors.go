package services

import "errors"

// APIError is a client-caused failure; Status is the HTTP status to answer with.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func (a *APIError) Error() string {
	return a.Message
}

var (
	ErrNotFound            = errors.New("member not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrAlreadyGenerated    = errors.New("id card already generated")
	ErrAllocationExhausted = errors.New("could not allocate a unique member identifier")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
