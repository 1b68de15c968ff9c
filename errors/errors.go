package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDefine   Phase = "define"   // class definition
	PhaseRegister Phase = "register" // tag registration
	PhaseDispatch Phase = "dispatch" // lifecycle dispatch
	PhaseLoad     Phase = "load"     // guest module loading
	PhaseHost     Phase = "host"     // host function registration
	PhaseScript   Phase = "script"   // scenario parsing and execution
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidImpl   Kind = "invalid_impl"
	KindMissingExport Kind = "missing_export"
	KindTypeMismatch  Kind = "type_mismatch"
	KindDuplicateTag  Kind = "duplicate_tag"
	KindNotRegistered Kind = "not_registered"
	KindNotFound      Kind = "not_found"
	KindInvalidData   Kind = "invalid_data"
	KindInvalidInput  Kind = "invalid_input"
	KindClosed        Kind = "closed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Tag    string
	Export string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Tag != "" {
		fmt.Fprintf(&b, " tag %q", e.Tag)
	}
	if e.Export != "" {
		fmt.Fprintf(&b, " export %q", e.Export)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Tag sets the element tag name involved
func (b *Builder) Tag(tag string) *Builder {
	b.err.Tag = tag
	return b
}

// Export sets the guest export name involved
func (b *Builder) Export(name string) *Builder {
	b.err.Export = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidImpl creates a malformed-implementation error
func InvalidImpl(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidImpl,
		Detail: detail,
	}
}

// MissingExport creates a missing guest export error
func MissingExport(export string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingExport,
		Export: export,
		Detail: "guest module does not export required lifecycle function",
	}
}

// TypeMismatch creates a guest export signature error
func TypeMismatch(export, want, got string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindTypeMismatch,
		Export: export,
		Detail: fmt.Sprintf("signature %s, want %s", got, want),
	}
}

// DuplicateTag creates a duplicate tag registration error
func DuplicateTag(tag string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicateTag,
		Tag:    tag,
		Detail: "tag already defined",
	}
}

// NotRegistered creates an unknown tag error
func NotRegistered(tag string) *Error {
	return &Error{
		Phase: PhaseRegister,
		Kind:  KindNotRegistered,
		Tag:   tag,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Load creates a guest loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Script creates a scenario error
func Script(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseScript,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Closed creates an operate-after-close error
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}
