package domain

import (
	"errors"
	"fmt"
)

// Stage is the step of request processing that failed.
type Stage string

const (
	StageLocate    Stage = "locate"
	StageFetch     Stage = "fetch"
	StageParse     Stage = "parse"
	StageTranslate Stage = "translate"
	StageStore     Stage = "store"
)

// ErrorKind classifies a processing failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindMalformedNotification: the notification does not name one object.
	KindMalformedNotification
	KindObjectNotFound
	KindAccessDenied
	// KindStorageIO covers transient and unclassified storage failures.
	KindStorageIO
	// KindInvalidPayload: the request file is not a valid request document.
	KindInvalidPayload
	KindInvalidLanguageCode
	// KindUnsupportedText: the provider rejected the text itself, usually for size.
	KindUnsupportedText
	KindThrottled
	KindProviderTransient
)

var kindNames = map[ErrorKind]string{
	KindUnknown:               "unknown",
	KindMalformedNotification: "malformed_notification",
	KindObjectNotFound:        "object_not_found",
	KindAccessDenied:          "access_denied",
	KindStorageIO:             "storage_io",
	KindInvalidPayload:        "invalid_payload",
	KindInvalidLanguageCode:   "invalid_language_code",
	KindUnsupportedText:       "unsupported_text",
	KindThrottled:             "throttled",
	KindProviderTransient:     "provider_transient",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified processing failure.
type Error struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// StageOf returns the stage of the first *Error in err's chain.
func StageOf(err error) Stage {
	var de *Error
	if errors.As(err, &de) {
		return de.Stage
	}
	return ""
}

// Classify returns err unchanged when it already carries a kind, otherwise
// wraps it in an *Error with the given stage and kind.
func Classify(err error, stage Stage, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Stage: stage, Kind: kind, Err: err}
}
