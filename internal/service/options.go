package service

import (
	"time"

	"github.com/alexanderramin/toil/internal/toil"
)

// DefaultOpenSessionLookback bounds how far back ClockIn looks for a session
// that is still running.
const DefaultOpenSessionLookback = 8 * time.Hour

// Options carries the reference zone and clock shared by the services.
type Options struct {
	Location            *time.Location
	OpenSessionLookback time.Duration
	Now                 func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		if loc, err := time.LoadLocation(toil.DefaultZone); err == nil {
			o.Location = loc
		} else {
			o.Location = time.UTC
		}
	}
	if o.OpenSessionLookback <= 0 {
		o.OpenSessionLookback = DefaultOpenSessionLookback
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// now prefers a per-request override.
func (o Options) now(override *time.Time) time.Time {
	if override != nil {
		return override.UTC()
	}
	return o.Now().UTC()
}
