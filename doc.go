// Package celbridge bridges externally supplied component implementations
// onto the custom-element lifecycle.
//
// An Implementation exposes four lifecycle operations (connected,
// disconnected, adopted, attribute-changed) plus a static observed-attribute
// list. The bridge turns one Implementation into an element class whose
// instances forward host-dispatched lifecycle events to the Implementation,
// threading an opaque numeric Handle through the calls. The Handle denotes
// whatever backing state the Implementation allocates on connection; the
// bridge only stores and forwards it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	celbridge/        Root package with the Implementation and Element contracts
//	├── bridge/       Element class factory and per-instance lifecycle dispatch
//	├── handle/       Opaque handle type and generic state table
//	├── host/         Simulated host-document runtime for driving bridges
//	├── guest/        WASM-backed Implementation over wazero
//	├── script/       YAML lifecycle scenarios
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Define a class from an Implementation and drive it through a document:
//
//	class, err := bridge.Define(impl)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg := host.NewRegistry()
//	reg.Define("my-counter", class)
//
//	doc := host.NewDocument(reg)
//	el, _ := doc.CreateElement("my-counter")
//	doc.Mount(ctx, el)                 // impl.Connected -> handle
//	el.SetAttribute(ctx, "value", "1") // impl.AttributeChanged
//	doc.Unmount(ctx, el)               // impl.Disconnected, handle cleared
//
// # Handle Discipline
//
// Exactly one non-empty Handle exists per currently connected instance. The
// handle is handle.Empty before first connection and after disconnection;
// disconnection clears it unconditionally, even when the Implementation
// reports an error. Attribute notifications delivered while no live handle
// exists are suppressed rather than forwarded.
//
// # Concurrency
//
// Lifecycle dispatch is single-threaded and synchronous, matching the host
// document model: callbacks for one element never run concurrently, and no
// bridge operation blocks or yields. Documents and instances are not safe
// for concurrent use.
package celbridge
