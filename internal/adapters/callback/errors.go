package callback

import "fmt"

// CallbackError is a non-2xx answer from the document system.
type CallbackError struct {
	Message    string
	StatusCode int
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback error: %s (status: %d)", e.Message, e.StatusCode)
}

type errorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}
