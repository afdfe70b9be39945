package cache

import "time"

const (
	// TTLDefault is used for single records and most list views.
	TTLDefault = time.Hour
	// TTLShort is used for views that change often, such as unread counters and active slots.
	TTLShort = 30 * time.Minute

	// scanBatchSize is the COUNT hint passed to SCAN.
	scanBatchSize = 1000

	DefaultKeyPrefix = "evm:"
)
