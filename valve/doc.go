// Package valve provides sliding-window occupancy tracking and the
// throttles built on top of it.
//
// A Valve tracks a bounded rolling set of "active" values. Each observed
// value is held for its own period and removed when the period elapses, so
// the set reflects recent activity. Classification predicates decouple the
// physical active set from logical per-class limits: Count and Left answer
// "how many active values belong to this class" and "how much room is left
// under this limit" without the valve knowing anything about classes.
//
// # Primitives
//
//   - Valve: the occupancy tracker. Observe tracks a value for a period;
//     Check combines the admission test and tracking in one step, returning
//     the room that existed before this call's own admission.
//
//   - Throttle: a fixed-cooldown wrapper around a function. While the
//     wrapped function is within its cooldown window, calls return
//     ErrThrottled without invoking it.
//
//   - Sling: an adaptive valve. Instead of gating admission, it scales each
//     entry's hold period from current occupancy, so load shapes how long
//     new entries stay tracked rather than hitting a hard accept/reject
//     boundary.
//
// # Usage
//
//	v := valve.New[string]()
//	room := v.Check("job-a", time.Second, 3, func(s string) bool {
//	    return strings.HasPrefix(s, "job-")
//	}, false)
//	if room <= 0 {
//	    // over the limit, value was not tracked
//	}
//
//	fetch := valve.Throttle(fetchQuote, 30*time.Second)
//	quote, err := fetch(ctx)
//	if errors.Is(err, valve.ErrThrottled) {
//	    // still inside the cooldown window
//	}
package valve
