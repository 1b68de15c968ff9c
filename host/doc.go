// Package host provides a simulated host-document runtime for driving
// element bridges outside a browser.
//
// A real custom-element host (the browser document) constructs elements,
// reads each class's observed-attribute list once at registration, and
// dispatches the four lifecycle callbacks in response to DOM mutations.
// This package reproduces that contract so bridges can be exercised by
// tests, scenarios, and the CLI:
//
//	reg := host.NewRegistry()
//	reg.Define("my-counter", class)
//
//	doc := host.NewDocument(reg)
//	el, _ := doc.CreateElement("my-counter")
//	doc.Mount(ctx, el)
//	el.SetAttribute(ctx, "value", "1")
//	doc.Unmount(ctx, el)
//
// # Dispatch Ordering
//
// The document honors the host-runtime ordering guarantees: connected
// before any attribute-changed for an element, disconnected at most once
// per connection, adopted only as the result of moving an element between
// documents. Mutations of observed attributes are reported regardless of
// mount state, matching hosts that batch DOM updates; the bridge decides
// whether to forward them.
//
// # Failure Channel
//
// Errors returned by Implementation operations surface on the document's
// failure channel, a pluggable func(error) that defaults to logging. They
// are never swallowed, converted, or retried.
//
// # Concurrency
//
// A Document dispatches synchronously on the caller's goroutine and is not
// safe for concurrent use, matching the single-threaded host model.
package host
