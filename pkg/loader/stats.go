package loader

import "time"

// Stats records timing and byte counters for one load.
//
// Timestamps are monotonic: each is either unset or at least the
// previous one (RequestStart ≤ FirstByte ≤ Complete), and BytesLoaded
// never exceeds BytesTotal once the total is known. BytesTotal stays 0
// until a length header is seen.
type Stats struct {
	// Aborted is set by Abort before the abort notification fires.
	Aborted bool

	// RequestStart is when the load was issued.
	RequestStart time.Time

	// FirstByte is when response headers arrived.
	FirstByte time.Time

	// Complete is when the payload was fully decoded.
	Complete time.Time

	// BytesLoaded counts body bytes observed so far. After a successful
	// load it equals the decoded payload size.
	BytesLoaded int64

	// BytesTotal is the expected body size inferred from Content-Length
	// or Content-Range, 0 while unknown. After a successful load it
	// equals the decoded payload size.
	BytesTotal int64
}

// laterOf clamps a timestamp to a floor, guarding against clock skew
// producing an out-of-order reading.
func laterOf(now, floor time.Time) time.Time {
	if now.Before(floor) {
		return floor
	}
	return now
}
