// Package dedupe memoizes the result of an expensive asynchronous operation
// per distinct argument tuple, coalescing concurrent identical calls.
//
// Each call derives a deterministic state key from its arguments. If another
// call with the same key is already in flight, the new caller asks its
// Determine function for a wait budget and waits that long for the in-flight
// computation; on timeout it gives up waiting and computes on its own. A
// result is cached only on success, and only while the cache is under its
// admission cap; entries are never evicted.
//
// Coalescing is best-effort with bounded patience, not strict single
// flight: a caller whose patience runs out may start a redundant
// computation, so wrapped functions must tolerate duplicate invocation.
package dedupe
