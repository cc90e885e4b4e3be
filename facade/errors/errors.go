package errors

import (
	"fmt"
)

// Steps of a reservation, used to tell where a flow failed.
const (
	StepReserve = "reserve"
	StepFee     = "fee"
	StepPayment = "payment"
	StepForward = "forward"
)

// RequestError is returned when a backend rejects the request with a 4xx status.
type RequestError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s backend rejected request with status %d: %s", e.Backend, e.StatusCode, e.Body)
}

// BackendError covers transport failures, unreadable or undecodable responses,
// and any non-4xx failure status.
type BackendError struct {
	Backend    string
	StatusCode int //0 when no response was received
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s backend call failed: %s", e.Backend, e.Err)
	}
	return fmt.Sprintf("%s backend returned status %d: %s", e.Backend, e.StatusCode, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// FeeParseError is returned when the fee text is not a number.
type FeeParseError struct {
	Value string
	Err   error
}

func (e *FeeParseError) Error() string {
	return fmt.Sprintf("failed to parse fee %q: %s", e.Value, e.Err)
}

func (e *FeeParseError) Unwrap() error {
	return e.Err
}

// StepError records which step of the reservation flow produced Err.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
