package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures of the ingestion and query pipeline.
type Kind string

const (
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindExtraction           Kind = "extraction_error"
	KindExtractionParse      Kind = "extraction_parse_error"
	KindProvider             Kind = "provider_error"
	KindStore                Kind = "store_error"
	KindNotFound             Kind = "not_found"
	KindInvalidInput         Kind = "invalid_input"
	KindInternal             Kind = "internal"
)

// Error is the application error carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by kind so sentinel values like ErrNotFound work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Cause == nil
}

// Sentinels for errors.Is checks.
var (
	ErrUnsupportedMediaType = &Error{Kind: KindUnsupportedMediaType}
	ErrExtraction           = &Error{Kind: KindExtraction}
	ErrExtractionParse      = &Error{Kind: KindExtractionParse}
	ErrProvider             = &Error{Kind: KindProvider}
	ErrStore                = &Error{Kind: KindStore}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to cause. A nil cause yields nil.
func Wrap(kind Kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
