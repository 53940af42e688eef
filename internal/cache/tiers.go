package cache

import "time"

// Tier is an immutable TTL preset selected by the caller per use case.
// TTL is the absolute expiry from insertion; MaxIdle is the idle expiry
// from last access, enforced by the local tier only.
type Tier struct {
	TTL     time.Duration
	MaxIdle time.Duration
}

// Named tiers. Loaded once at process start and read-only thereafter.
var (
	// TierShortLived suits volatile data such as search results
	TierShortLived = Tier{TTL: 10 * time.Minute, MaxIdle: 5 * time.Minute}
	// TierDefault is the general-purpose preset
	TierDefault = Tier{TTL: 30 * time.Minute, MaxIdle: 10 * time.Minute}
	// TierMidLived suits slow-changing reference data
	TierMidLived = Tier{TTL: time.Hour, MaxIdle: 20 * time.Minute}
	// TierLongLived suits near-static data such as code tables
	TierLongLived = Tier{TTL: 24 * time.Hour, MaxIdle: 4 * time.Hour}
)
