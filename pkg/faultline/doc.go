// Package faultline captures errors, panics and messages from Go services
// and reports them to a crash-ingestion service.
//
// A capture reconstructs the call stack at the fault site, renders argument
// values through a bounded serializer and assembles the ingestion wire
// document, which a Transport then delivers in one synchronous attempt.
//
// # Core Components
//
//   - Client: explicit, caller-owned entry point for captures
//   - StackBuilder and FrameBuilder: stack reconstruction from runtime
//     stacks, pkg/errors traces and foreign backtraces
//   - Event: the in-memory report, with Breadcrumb, ExceptionRecord and
//     Stacktrace
//   - Assemble: the pure Event to WireDocument mapping
//   - Transport: delivery (http, cxdb, stderr, multi, noop)
//   - Scrubber: redacts sensitive data with fail-closed behavior
//
// # Quick Start
//
//	client, err := faultline.New("https://token@ingest.example.com/project/1",
//	    faultline.WithEnvironment("prod"),
//	    faultline.WithDefaultScrubbing(),
//	)
//	if err != nil {
//	    return err
//	}
//	defer faultline.Recover(ctx, client)
//
//	if id, ok := client.CaptureError(ctx, err); ok {
//	    log.Printf("reported as %s", id)
//	}
//
// # Design Principles
//
//   - Captures never fail the caller: delivery errors are logged and reported
//     only as a missing event ID
//   - Degradations are local: unknown signatures fall back to positional
//     argument names, unreadable sources to empty windows, opaque values to
//     descriptive placeholders
//   - Fail-closed scrubbing: when scrubbing fails, free-text fields are fully
//     redacted
package faultline
