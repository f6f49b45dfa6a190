package recommend

import (
	"errors"
	"fmt"
)

// ErrUpstream marks failures of an external collaborator (catalog,
// embedding model or language model).
var ErrUpstream = errors.New("upstream service failure")

// maxParseErrorText bounds the offending text kept on a ParseError.
const maxParseErrorText = 500

// UpstreamError wraps a collaborator failure with the service and operation
// that produced it.
type UpstreamError struct {
	Service string
	Op      string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is reports ErrUpstream as a match so callers can test for any
// collaborator failure without knowing which one.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// upstream wraps err as an UpstreamError unless it already is one.
func upstream(service, op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Service: service, Op: op, Err: err}
}

// ParseError is returned when the language model's structured output cannot
// be decoded. Text holds the beginning of the offending response.
type ParseError struct {
	Text string
	Err  error
}

// NewParseError truncates text to the first 500 characters.
func NewParseError(text string, err error) *ParseError {
	r := []rune(text)
	if len(r) > maxParseErrorText {
		text = string(r[:maxParseErrorText])
	}
	return &ParseError{Text: text, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrInvalidRequest marks caller input the engine refuses to process.
var ErrInvalidRequest = errors.New("invalid request")
