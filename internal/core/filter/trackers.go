package filter

import (
	"sync"
	"time"
)

// State holds the four time-windowed trackers the filter rules consult:
// per-user message frequency, per-user group diversity, per-phone cross-group
// spread, and per-user duplicate-content hashes. In-memory only; a restart
// starts from zero and the heuristics rebuild within their windows.
//
// All mutations go through the single mutex. Tracker updates are compound
// read-modify-write operations and chi handlers run concurrently, so the
// lock is not optional. Sweep takes the same lock and therefore never runs
// inside an in-flight check
type State struct {
	cfg Config

	mu     sync.Mutex
	freq   map[string]*freqEntry
	groups map[string]*groupEntry
	phones map[string]*phoneEntry
	dupes  map[string]*dupeEntry
}

type freqEntry struct {
	count       int
	windowStart time.Time
}

type groupEntry struct {
	groups   map[string]struct{}
	lastSeen time.Time
}

type phoneEntry struct {
	groups    map[string]struct{}
	firstSeen time.Time
}

type dupeEntry struct {
	seen     map[string]struct{}
	order    []string // insertion order for the overflow trim
	lastSeen time.Time
}

// NewState constructs empty trackers with the given windows and caps
func NewState(cfg Config) *State {
	return &State{
		cfg:    cfg,
		freq:   make(map[string]*freqEntry),
		groups: make(map[string]*groupEntry),
		phones: make(map[string]*phoneEntry),
		dupes:  make(map[string]*dupeEntry),
	}
}

// RecordMessage bumps the sender's rolling message count and returns it.
// The count restarts at 1 once the frequency window has elapsed
func (s *State) RecordMessage(userID string, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.freq[userID]
	if e == nil || now.Sub(e.windowStart) > s.cfg.FrequencyWindow {
		e = &freqEntry{windowStart: now}
		s.freq[userID] = e
	}
	e.count++
	return e.count
}

// RecordGroup adds groupID to the sender's distinct-group set and returns the
// set size. The set only ever grows; eviction is the sweep's job, after the
// idle TTL, which makes this a session-scoped counter rather than a lifetime
// one (permanent exclusion is the block list's job)
func (s *State) RecordGroup(userID, groupID string, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.groups[userID]
	if e == nil {
		e = &groupEntry{groups: make(map[string]struct{}, 4)}
		s.groups[userID] = e
	}
	e.groups[groupID] = struct{}{}
	e.lastSeen = now
	return len(e.groups)
}

// RecordPhone adds groupID to the phone's distinct-group set and returns the
// set size. The whole entry resets once the spam window has elapsed since the
// phone was first seen, so stale groups never accumulate toward the threshold
func (s *State) RecordPhone(phoneDigits, groupID string, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.phones[phoneDigits]
	if e == nil || now.Sub(e.firstSeen) > s.cfg.PhoneSpamWindow {
		e = &phoneEntry{groups: make(map[string]struct{}, 4), firstSeen: now}
		s.phones[phoneDigits] = e
	}
	e.groups[groupID] = struct{}{}
	return len(e.groups)
}

// RecordContent records the content hash for the sender and reports whether
// it had been seen before. The first occurrence therefore never reads as a
// duplicate; every later one does. Per-user hash sets are capped: past
// DuplicateCap entries the oldest are dropped down to DuplicateTrim
func (s *State) RecordContent(userID, hash string, now time.Time) (dup bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.dupes[userID]
	if e == nil {
		e = &dupeEntry{seen: make(map[string]struct{}, 8)}
		s.dupes[userID] = e
	}
	e.lastSeen = now

	if _, ok := e.seen[hash]; ok {
		return true
	}
	e.seen[hash] = struct{}{}
	e.order = append(e.order, hash)

	if len(e.order) > s.cfg.DuplicateCap {
		cut := len(e.order) - s.cfg.DuplicateTrim
		for _, old := range e.order[:cut] {
			delete(e.seen, old)
		}
		e.order = append(e.order[:0], e.order[cut:]...)
	}
	return false
}

// Sweep evicts entries idle past their windows. The host schedules it;
// trackers never sweep themselves mid-query
func (s *State) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.freq {
		if now.Sub(e.windowStart) > s.cfg.FrequencyWindow {
			delete(s.freq, id)
		}
	}
	for id, e := range s.groups {
		if now.Sub(e.lastSeen) > s.cfg.GroupIdleTTL {
			delete(s.groups, id)
		}
	}
	for digits, e := range s.phones {
		if now.Sub(e.firstSeen) > s.cfg.PhoneSpamWindow {
			delete(s.phones, digits)
		}
	}
	for id, e := range s.dupes {
		if now.Sub(e.lastSeen) > s.cfg.DuplicateIdleTTL {
			delete(s.dupes, id)
		}
	}
}

// Sizes reports tracker cardinalities, for the stats endpoint and tests
func (s *State) Sizes() (freq, groups, phones, dupes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.freq), len(s.groups), len(s.phones), len(s.dupes)
}
