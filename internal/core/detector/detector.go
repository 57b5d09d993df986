// Package detector implements the soft dispatcher scorer and the logistics
// field extractor. Unlike the filter gate, nothing here blocks anything: the
// scorer produces an explainable confidence for ranking, manual re-review and
// tie-breaking, and stays decoupled from the gate so tuning one never moves
// the other's cutoffs
package detector

import (
	"fmt"

	"cargogate/internal/core/normalize"
	"cargogate/internal/core/phone"
	"cargogate/internal/core/rulepack"
)

// Result is the scorer's outcome. DispatcherScore and OwnerScore are the raw
// signed accumulators; Confidence is the dispatcher score clamped to [0,1]
type Result struct {
	IsDispatcher    bool
	Confidence      float64
	DispatcherScore float64
	OwnerScore      float64
	Reasons         []string // matched signals in evaluation order, for audit
	PhoneCount      int
	EmojiCount      int
	LineCount       int
}

// Weights carries the per-signal contributions and trip points
type Weights struct {
	KeywordHit        float64 // per dispatcher-keyword occurrence
	OwnerHit          float64 // per owner counter-keyword, to owner score
	OwnerPenalty      float64 // per owner counter-keyword, off dispatcher score
	ManyPhones        float64 // phone count above ManyPhonesOver
	ManyPhonesOver    int
	FewPhonesOwner    float64 // 1-2 phones reads as a genuine post
	EmojiDense        float64
	EmojiOver         int
	UrgencyRepeat     float64
	UrgencyOver       int
	FlagsOrLongPost   float64
	FlagsOver         int
	LinesOver         int
	TemplateSeparator float64
	CityDense         float64
	CitiesOver        int

	Threshold float64 // dispatcher score needed for a positive call
}

// DefaultWeights returns the production tuning
func DefaultWeights() Weights {
	return Weights{
		KeywordHit:        0.3,
		OwnerHit:          0.3,
		OwnerPenalty:      0.2,
		ManyPhones:        0.4,
		ManyPhonesOver:    3,
		FewPhonesOwner:    0.2,
		EmojiDense:        0.2,
		EmojiOver:         10,
		UrgencyRepeat:     0.3,
		UrgencyOver:       5,
		FlagsOrLongPost:   0.3,
		FlagsOver:         10,
		LinesOver:         30,
		TemplateSeparator: 0.15,
		CityDense:         0.2,
		CitiesOver:        10,

		Threshold: 0.7,
	}
}

// Detector scores message text against the rule pack vocabularies
type Detector struct {
	pack *rulepack.Pack
	w    Weights
}

// New creates a Detector with default weights
func New(pack *rulepack.Pack) *Detector {
	return NewWithWeights(pack, DefaultWeights())
}

// NewWithWeights creates a Detector with custom weights
func NewWithWeights(pack *rulepack.Pack, w Weights) *Detector {
	return &Detector{pack: pack, w: w}
}

// Analyze computes the weighted dispatcher/owner scores for text. Pure: no
// tracker state, same text always scores the same
func (d *Detector) Analyze(text string) Result {
	r := Result{
		PhoneCount: phone.Count(text),
		EmojiCount: normalize.CountEmoji(text),
		LineCount:  normalize.CountLines(text),
	}
	if text == "" {
		return r
	}

	if n := d.pack.CountDispatcherKeywords(text); n > 0 {
		r.DispatcherScore += float64(n) * d.w.KeywordHit
		r.Reasons = append(r.Reasons, fmt.Sprintf("dispatcher keywords x%d", n))
	}

	if n := d.pack.CountOwnerKeywords(text); n > 0 {
		r.OwnerScore += float64(n) * d.w.OwnerHit
		r.DispatcherScore -= float64(n) * d.w.OwnerPenalty
		r.Reasons = append(r.Reasons, fmt.Sprintf("owner keywords x%d", n))
	}

	switch {
	case r.PhoneCount > d.w.ManyPhonesOver:
		r.DispatcherScore += d.w.ManyPhones
		r.Reasons = append(r.Reasons, fmt.Sprintf("many phone numbers (%d)", r.PhoneCount))
	case r.PhoneCount >= 1 && r.PhoneCount <= 2:
		r.OwnerScore += d.w.FewPhonesOwner
		r.Reasons = append(r.Reasons, "one contact number")
	}

	if r.EmojiCount > d.w.EmojiOver {
		r.DispatcherScore += d.w.EmojiDense
		r.Reasons = append(r.Reasons, fmt.Sprintf("emoji dense (%d)", r.EmojiCount))
	}

	if n := d.pack.CountUrgencyWords(text); n > d.w.UrgencyOver {
		r.DispatcherScore += d.w.UrgencyRepeat
		r.Reasons = append(r.Reasons, fmt.Sprintf("urgency words x%d", n))
	}

	if flags := normalize.CountFlags(text); flags > d.w.FlagsOver || r.LineCount > d.w.LinesOver {
		r.DispatcherScore += d.w.FlagsOrLongPost
		r.Reasons = append(r.Reasons, fmt.Sprintf("route-board shape (%d flags, %d lines)", flags, r.LineCount))
	}

	if normalize.HasSeparatorRun(text) {
		r.DispatcherScore += d.w.TemplateSeparator
		r.Reasons = append(r.Reasons, "template separators")
	}

	if n := d.pack.CountDistinctCities(text); n > d.w.CitiesOver {
		r.DispatcherScore += d.w.CityDense
		r.Reasons = append(r.Reasons, fmt.Sprintf("city-name dense (%d)", n))
	}

	r.IsDispatcher = r.DispatcherScore >= d.w.Threshold && r.DispatcherScore > r.OwnerScore
	r.Confidence = clamp01(r.DispatcherScore)
	return r
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
