// Package async tracks asynchronous operations for the terminal views.
//
// A Request wraps a Producer and records its progress as idle, loading,
// success or error. Views render from State and trigger retries by calling
// Execute again.
//
// Each Execute supersedes the attempt before it: the older attempt's context
// is cancelled and, should it still complete, its result and callbacks are
// dropped. Reset drops in-flight attempts the same way. The last attempt
// issued therefore always decides the final state.
//
// Data from the last success survives a later failure so a list can stay on
// screen under an error banner; HasData tells callers whether Data is real.
package async
