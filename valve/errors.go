package valve

import "errors"

// ErrThrottled is returned by a throttled wrapper when the call lands inside
// the cooldown window and the wrapped function is not invoked. Absence of
// room in a Valve itself is a normal return value, not an error; only the
// Throttle wrapper reports it this way.
var ErrThrottled = errors.New("valve: call throttled")
