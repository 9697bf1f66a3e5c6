package pipeline

import "errors"

// Step errors that end processing of a single company.
var (
	// ErrNoShareholders is returned when the payload has no shareholder
	// collection under any of the expected keys.
	ErrNoShareholders = errors.New("response has no shareholder collection")

	// ErrEmptyShareholders is returned when the collection is present but empty.
	ErrEmptyShareholders = errors.New("shareholder collection is empty")

	// ErrNoResponse is returned by the extract step when no payload was fetched.
	ErrNoResponse = errors.New("no registry response")
)
