// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors (panics
// included), and can report each failure to a hook so that background work
// never fails silently.
package pkgroutine
