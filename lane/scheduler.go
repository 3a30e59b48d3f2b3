package lane

import (
	"context"
	"sync"
	"time"

	"github.com/cinelane/cinelane/log"
	"github.com/samber/mo"
)

type slot struct {
	index       int
	available   bool
	lastRelease mo.Option[time.Time]

	// token is non-zero while an event occupies the slot.
	token      uint64
	assignedAt time.Time
	event      Event
}

func (s *slot) vacate() {
	s.available = true
	s.token = 0
	s.event = Event{}
}

// Scheduler owns the lane table. Every mutation happens under mu.
type Scheduler struct {
	mu        sync.Mutex
	opts      Options
	slots     []*slot
	nextToken uint64
	enabled   bool
	stats     Stats
	notices   chan Notice
}

// New returns a Scheduler with every lane available.
func New(opts Options) *Scheduler {
	opts = opts.normalized()

	slots := make([]*slot, opts.Count)
	for i := range slots {
		slots[i] = &slot{index: i, available: true}
	}

	return &Scheduler{
		opts:    opts,
		slots:   slots,
		enabled: true,
	}
}

// Submit places an event in a lane.
//
// The first available lane wins. When none is available, the lowest lane whose previous
// occupant finished more than the clearance window ago is reclaimed. Otherwise the event
// is dropped and None is returned; dropping is not an error.
func (s *Scheduler) Submit(e Event) mo.Option[Assignment] {
	e = e.withDefaults(s.opts.Crossing)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	s.stats.Submitted++

	if !s.enabled {
		s.drop(e)
		return mo.None[Assignment]()
	}

	s.settle(now)

	for _, sl := range s.slots {
		if sl.available {
			return mo.Some(s.assign(sl, e, now))
		}
	}

	for _, sl := range s.slots {
		release, ok := sl.lastRelease.Get()
		if ok && now.Sub(release) > s.opts.Clearance {
			s.stats.Reclaimed++
			log.With(log.Fields{"lane": sl.index, "token": sl.token}).Debugf("reclaiming lane")
			return mo.Some(s.assign(sl, e, now))
		}
	}

	s.drop(e)
	return mo.None[Assignment]()
}

// Release marks the occupancy identified by token as finished at now, starting its grace
// window. It returns false when the token no longer owns a lane or was already released,
// so late completions after a reclaim never touch the newer occupant.
func (s *Scheduler) Release(token uint64, now time.Time) bool {
	if token == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sl := range s.slots {
		if sl.token != token {
			continue
		}
		if sl.lastRelease.IsPresent() {
			return false
		}
		sl.lastRelease = mo.Some(now)
		s.settleSlot(sl, now)
		return true
	}
	return false
}

// Tick runs periodic maintenance: occupants past their crossing time are finished, and
// finished lanes past the grace window become available.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(now)
}

// Run calls Tick every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.opts.Now())
		}
	}
}

// Subscribe returns a channel receiving lane notices. Sends never block: when the
// buffer is full the notice is discarded. Only the latest subscriber is served.
func (s *Scheduler) Subscribe(buffer int) <-chan Notice {
	ch := make(chan Notice, buffer)

	s.mu.Lock()
	s.notices = ch
	s.mu.Unlock()

	return ch
}

// Enable resumes accepting submissions.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	s.enabled = true
	s.mu.Unlock()
}

// Disable drops every future submission and frees all lanes.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
	s.clear()
}

// Enabled reports whether submissions are accepted.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Clear frees every lane immediately. Outstanding tokens become stale.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// Len returns the number of lanes.
func (s *Scheduler) Len() int {
	return len(s.slots)
}

// Lanes returns a snapshot of the lane table.
func (s *Scheduler) Lanes() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Snapshot, len(s.slots))
	for i, sl := range s.slots {
		snap := Snapshot{
			Index:       sl.index,
			Available:   sl.available,
			LastRelease: sl.lastRelease,
		}
		if sl.token != 0 {
			snap.Occupant = mo.Some(Occupant{Event: sl.event, Token: sl.token, AssignedAt: sl.assignedAt})
		}
		out[i] = snap
	}
	return out
}

// Stats returns the cumulative counters and the number of busy lanes.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	for _, sl := range s.slots {
		if !sl.available {
			stats.Busy++
		}
	}
	return stats
}

func (s *Scheduler) assign(sl *slot, e Event, now time.Time) Assignment {
	s.nextToken++

	sl.available = false
	sl.lastRelease = mo.None[time.Time]()
	sl.token = s.nextToken
	sl.assignedAt = now
	sl.event = e

	s.stats.Assigned++
	s.publish(Notice{Kind: Assigned, Lane: sl.index, Token: sl.token, Event: e})

	return Assignment{Lane: sl.index, Crossing: e.Crossing, Token: sl.token}
}

func (s *Scheduler) drop(e Event) {
	s.stats.Dropped++
	s.publish(Notice{Kind: Dropped, Lane: -1, Event: e})
}

func (s *Scheduler) settle(now time.Time) {
	for _, sl := range s.slots {
		s.settleSlot(sl, now)
	}
}

func (s *Scheduler) settleSlot(sl *slot, now time.Time) {
	if sl.token == 0 {
		return
	}

	if sl.lastRelease.IsAbsent() {
		finish := sl.assignedAt.Add(sl.event.Crossing)
		if now.Before(finish) {
			return
		}
		sl.lastRelease = mo.Some(finish)
	}

	if now.Sub(sl.lastRelease.MustGet()) >= s.opts.Grace {
		token, event := sl.token, sl.event
		sl.vacate()
		s.publish(Notice{Kind: Freed, Lane: sl.index, Token: token, Event: event})
	}
}

func (s *Scheduler) clear() {
	for _, sl := range s.slots {
		sl.vacate()
		sl.lastRelease = mo.None[time.Time]()
	}
}

func (s *Scheduler) publish(n Notice) {
	if s.notices == nil {
		return
	}
	select {
	case s.notices <- n:
	default:
	}
}
