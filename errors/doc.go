// Package errors provides structured error types for the celbridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes context: the element tag or export name
// involved, a detail message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindMissingExport).
//		Export("connected").
//		Detail("guest module has no lifecycle export").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidImpl(errors.PhaseDefine, "implementation is nil")
//	err := errors.DuplicateTag("my-counter")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Implementation lifecycle failures are never wrapped by the bridge itself:
// the bridge is a forwarding layer, and errors raised by an Implementation
// propagate unmodified to the host's failure channel. The types here cover
// configuration and loading errors only.
package errors
