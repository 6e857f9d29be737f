// Package ragerr holds the typed errors of the conversation pipeline.
// Only configuration problems are fatal; the others are absorbed into the
// answer text at the session boundary.
package ragerr

import "fmt"

// ClassificationParseError means the classifier output could not be mapped
// to a label. The caller falls back to the "question" label.
type ClassificationParseError struct {
	Raw string
	Err error
}

func (e *ClassificationParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification parse: %v (raw=%q)", e.Err, e.Raw)
	}
	return fmt.Sprintf("classification parse: unrecognized label %q", e.Raw)
}

func (e *ClassificationParseError) Unwrap() error { return e.Err }

// RetrievalError wraps a failing search collaborator.
type RetrievalError struct {
	Query string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed for %q: %v", e.Query, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationInvocationError wraps a failing answer model call.
type GenerationInvocationError struct {
	Err error
}

func (e *GenerationInvocationError) Error() string {
	return fmt.Sprintf("generation invocation failed: %v", e.Err)
}

func (e *GenerationInvocationError) Unwrap() error { return e.Err }
