package toil

import (
	"fmt"
	"time"
	_ "time/tzdata"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultZone is the reference zone when none is configured. All dates
// produced by this package are local to the zone passed in by the caller.
const DefaultZone = "Australia/Perth"

// ZoneCache memoises time zone lookups so repeated aggregations never hit
// the zone database.
type ZoneCache struct {
	cache *lru.Cache[string, *time.Location]
}

// NewZoneCache creates a cache holding up to size zones.
func NewZoneCache(size int) (*ZoneCache, error) {
	if size <= 0 {
		size = 16
	}
	c, err := lru.New[string, *time.Location](size)
	if err != nil {
		return nil, fmt.Errorf("creating zone cache: %w", err)
	}
	return &ZoneCache{cache: c}, nil
}

// Load returns the location for an IANA zone name.
func (z *ZoneCache) Load(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	if loc, ok := z.cache.Get(name); ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	z.cache.Add(name, loc)
	return loc, nil
}

// Len reports how many zones are cached.
func (z *ZoneCache) Len() int {
	return z.cache.Len()
}
