package cargodoc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a render can report. Every error
// returned by this module wraps exactly one of them, so callers can match
// with errors.Is or classify with KindOf.
var (
	ErrAssetMissing    = errors.New("cargodoc: asset missing")
	ErrTemplateMissing = errors.New("cargodoc: template missing")
	ErrTemplateInvalid = errors.New("cargodoc: template unreadable")
	ErrInvalidAmount   = errors.New("cargodoc: invalid amount")
	ErrWriteFailure    = errors.New("cargodoc: write failure")
	ErrEmptyInput      = errors.New("cargodoc: empty input")
	ErrInvalidLayout   = errors.New("cargodoc: invalid layout")
	ErrDuplicateOutput = errors.New("cargodoc: duplicate output path")
	ErrRenderFailure   = errors.New("cargodoc: render failure")
)

// Kind classifies an error returned by this module.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAssetMissing
	KindTemplateMissing
	KindTemplateInvalid
	KindInvalidAmount
	KindWriteFailure
	KindEmptyInput
	KindInvalidLayout
	KindDuplicateOutput
	KindRenderFailure
)

var kindNames = [...]string{
	KindUnknown:         "Unknown",
	KindAssetMissing:    "AssetMissing",
	KindTemplateMissing: "TemplateMissing",
	KindTemplateInvalid: "TemplateInvalid",
	KindInvalidAmount:   "InvalidAmount",
	KindWriteFailure:    "WriteFailure",
	KindEmptyInput:      "EmptyInput",
	KindInvalidLayout:   "InvalidLayout",
	KindDuplicateOutput: "DuplicateOutput",
	KindRenderFailure:   "RenderFailure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	{KindAssetMissing, ErrAssetMissing},
	{KindTemplateMissing, ErrTemplateMissing},
	{KindTemplateInvalid, ErrTemplateInvalid},
	{KindInvalidAmount, ErrInvalidAmount},
	{KindWriteFailure, ErrWriteFailure},
	{KindEmptyInput, ErrEmptyInput},
	{KindInvalidLayout, ErrInvalidLayout},
	{KindDuplicateOutput, ErrDuplicateOutput},
	{KindRenderFailure, ErrRenderFailure},
}

// KindOf reports the kind of err, or KindUnknown when err wraps none of the
// sentinel errors. KindOf(nil) is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindUnknown
}

// Error represents a failure of a specific render operation.
// It wraps an underlying error and records the operation and, when one is
// involved, the file path.
type Error struct {
	Op   string // operation name, e.g. "RenderManifest", "WriteFile"
	Path string // file involved, if any
	Err  error  // underlying error, wraps one of the sentinel errors
}

func (e *Error) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("cargodoc.%s %s: %s", e.Op, e.Path, msg)
	}
	return fmt.Sprintf("cargodoc.%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind is shorthand for KindOf(e).
func (e *Error) Kind() Kind {
	return KindOf(e)
}

// NewError returns an *Error for op and path. When cause is not already one
// of the kind sentinels, kind is joined in front of it.
func NewError(op, path string, kind, cause error) *Error {
	err := kind
	switch {
	case cause == nil:
	case errors.Is(cause, kind):
		err = cause
	default:
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &Error{Op: op, Path: path, Err: err}
}
