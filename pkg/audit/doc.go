// Package audit provides a write-only audit trail contract and storage
// implementations for it.
//
// Business services depend on the Recorder interface only, so the concrete
// sink can be swapped between an in-memory store (tests), a structured log
// stream (SlogStorage), or a database-backed implementation without touching
// business logic.
package audit
