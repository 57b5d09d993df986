// Package filter implements the hard block/allow gate applied to every
// message pulled from monitored groups. Checks run in a fixed precedence
// order, cheapest and highest-precision first; the first rule that fires
// decides the verdict. The gate is deliberately separate from the soft
// dispatcher scorer so the two can be tuned independently
package filter

import (
	"time"

	"cargogate/internal/core/normalize"
	"cargogate/internal/core/rulepack"
)

// Message is one inbound group message with its sender metadata. Constructed
// by the ingestion layer per event and not retained after Check returns; only
// derived fingerprints and counts live on in the trackers
type Message struct {
	Text     string
	SenderID string
	Username string
	FullName string
	GroupID  string
}

// Reason identifies which rule produced a verdict. Values are stable; the
// verdict log and the dashboard key off them
type Reason string

// Verdict reasons, one per rule in precedence order
const (
	ReasonOK                Reason = "ok"
	ReasonDuplicateContent  Reason = "duplicate_content"
	ReasonProfileKeyword    Reason = "dispatcher_profile_keyword"
	ReasonFemaleName        Reason = "female_name_profile"
	ReasonSuspiciousProfile Reason = "suspicious_profile"
	ReasonNoPhone           Reason = "no_phone_number"
	ReasonForeignLocation   Reason = "foreign_location"
	ReasonExcessMentions    Reason = "excess_mentions"
	ReasonTooLong           Reason = "message_too_long"
	ReasonExcessEmoji       Reason = "excess_emoji"
	ReasonExcessBlankLines  Reason = "excess_blank_lines"
	ReasonTooManyGroups     Reason = "too_many_groups"
	ReasonTooFrequent       Reason = "message_frequency"
	ReasonPhoneSpam         Reason = "phone_group_spam"
	ReasonBodyPhrase        Reason = "dispatcher_body_phrase"
)

// Verdict is the gate's outcome for one message
type Verdict struct {
	Blocked      bool
	Reason       Reason
	Term         string // matched term, when a lookup rule fired
	IsDispatcher bool   // whether the block implies dispatcher classification
	AutoBlock    bool   // persist the sender to the block list, not just drop the message
}

// Config carries the rule thresholds and tracker windows. Zero value is not
// usable; start from DefaultConfig
type Config struct {
	MaxMessageRunes int // block above this length
	EmojiLimit      int // block at this many emoji
	MentionLimit    int // block at this many @mentions
	BlankLineLimit  int // block at this many consecutive blank lines
	CharRunLimit    int // profile is suspicious at this long a repeated-char run

	FrequencyWindow time.Duration // rolling window for the message counter
	FrequencyLimit  int           // block above this many messages per window

	GroupLimit   int           // block above this many distinct groups
	GroupIdleTTL time.Duration // sweep evicts group entries idle this long

	PhoneSpamWindow time.Duration // window for a phone's cross-group spread
	PhoneSpamGroups int           // block at this many distinct groups per phone

	DuplicateCap     int           // max stored hashes per sender
	DuplicateTrim    int           // trim target on overflow
	DuplicateIdleTTL time.Duration // sweep evicts dupe entries idle this long
}

// DefaultConfig returns the production thresholds
func DefaultConfig() Config {
	return Config{
		MaxMessageRunes: 200,
		EmojiLimit:      3,
		MentionLimit:    2,
		BlankLineLimit:  3,
		CharRunLimit:    30,

		FrequencyWindow: 5 * time.Minute,
		FrequencyLimit:  10,

		GroupLimit:   15,
		GroupIdleTTL: time.Hour,

		PhoneSpamWindow: 10 * time.Minute,
		PhoneSpamGroups: 15,

		DuplicateCap:     1000,
		DuplicateTrim:    500,
		DuplicateIdleTTL: time.Hour,
	}
}

// Filter is the gate orchestrator. Construct once per process and share; all
// statefulness lives in State behind its mutex
type Filter struct {
	cfg   Config
	pack  *rulepack.Pack
	norm  *normalize.Normalizer
	state *State
	rules []rule

	now func() time.Time // injectable clock for tests
}

// New builds a Filter over the given pack with default thresholds
func New(pack *rulepack.Pack) *Filter {
	return NewWithConfig(pack, DefaultConfig())
}

// NewWithConfig builds a Filter with custom thresholds
func NewWithConfig(pack *rulepack.Pack, cfg Config) *Filter {
	f := &Filter{
		cfg:   cfg,
		pack:  pack,
		norm:  normalize.New(),
		state: NewState(cfg),
		now:   time.Now,
	}
	f.rules = orderedRules()
	return f
}

// WithClock replaces the wall clock, for tests
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// State exposes the trackers so the host can schedule sweeps and read sizes
func (f *Filter) State() *State { return f.state }

// scratch carries values computed once per check and shared between rules
type scratch struct {
	now   time.Time
	phone string // canonical +998 form, "" when absent
}

// Check runs the precedence list against one message and returns the verdict.
// Never errors: malformed or empty input resolves through the rules (an empty
// text trivially has no phone number). Tracker rules record their observation
// when reached, whatever the final verdict turns out to be; counters must see
// true traffic or the heuristics decay
func (f *Filter) Check(m Message) Verdict {
	sc := &scratch{now: f.now()}
	for _, r := range f.rules {
		if v, ok := r.check(f, m, sc); ok {
			return v
		}
	}
	// unreachable: the allow rule always fires
	return Verdict{Reason: ReasonOK}
}

// blocked is shorthand for the dispatcher-classifying block verdicts
func blocked(reason Reason, term string) (Verdict, bool) {
	return Verdict{
		Blocked:      true,
		Reason:       reason,
		Term:         term,
		IsDispatcher: true,
		AutoBlock:    true,
	}, true
}
