package tagcache

import "time"

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	// Hits and Misses count Get outcomes. Every Get increments exactly one
	// of the two.
	Hits   uint64
	Misses uint64

	// Evictions counts entries removed by capacity pressure; Expirations
	// counts entries removed because their TTL passed (on read, on delete,
	// or by a cleanup pass).
	Evictions   uint64
	Expirations uint64

	// Size is the number of entries physically present, including expired
	// entries not yet swept.
	Size int

	// HitRate is Hits / (Hits + Misses), or 0 when nothing was accessed.
	HitRate float64

	// LastCleanup is when a cleanup pass last ran. Zero until the first
	// pass (manual or background).
	LastCleanup time.Time
}
