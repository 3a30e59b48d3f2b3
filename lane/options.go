package lane

import (
	"time"

	"github.com/cinelane/cinelane/key"
	"github.com/spf13/viper"
)

// Options configures a Scheduler. A zero Count, Crossing or Now, and negative
// durations, fall back to DefaultOptions; a zero Clearance or Grace is honored.
type Options struct {
	Count     int
	Clearance time.Duration
	Grace     time.Duration
	Crossing  time.Duration
	// Now is the scheduler clock. Tests inject a fake one.
	Now func() time.Time
}

// DefaultOptions returns six lanes, 1s clearance, 0.5s grace and 8s crossings.
func DefaultOptions() Options {
	return Options{
		Count:     6,
		Clearance: time.Second,
		Grace:     500 * time.Millisecond,
		Crossing:  8 * time.Second,
		Now:       time.Now,
	}
}

// OptionsFromConfig reads the lanes.* configuration keys.
func OptionsFromConfig() Options {
	return Options{
		Count:     viper.GetInt(key.LanesCount),
		Clearance: viper.GetDuration(key.LanesClearance),
		Grace:     viper.GetDuration(key.LanesGrace),
		Crossing:  viper.GetDuration(key.LanesCrossing),
		Now:       time.Now,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Count <= 0 {
		o.Count = d.Count
	}
	if o.Clearance < 0 {
		o.Clearance = d.Clearance
	}
	if o.Grace < 0 {
		o.Grace = d.Grace
	}
	if o.Crossing <= 0 {
		o.Crossing = d.Crossing
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
