// Package rulepack loads and compiles the static lookup tables behind the
// message gate from the embedded rules.json: dispatcher keywords, female-name
// patterns, foreign locations, city and vehicle vocabularies, and the
// operator whitelist. Tables are configuration the host supplies; the gate
// never reads them from disk at check time
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed rules.json
var embedded []byte

type rawPackV1 struct {
	Version          int            `json:"version"`
	Meta             map[string]any `json:"meta"`
	ProfileKeywords  []string       `json:"profile_keywords"`
	BodyPhrases      []string       `json:"body_phrases"`
	OwnerKeywords    []string       `json:"owner_keywords"`
	FemaleNames      []string       `json:"female_names"`
	ForeignLocations []string       `json:"foreign_locations"`
	DomesticCities   []string       `json:"domestic_cities"`
	VehicleTypes     []string       `json:"vehicle_types"`
	UrgencyWords     []string       `json:"urgency_words"`
	WhitelistIDs     []string       `json:"whitelist_sender_ids"`
}

// Match describes a lookup hit: the term that fired and the table it came from
type Match struct {
	Term  string
	Table string
}

// table is one compiled lookup domain: lowercased terms in file order.
// File order is the scan order, so first-match semantics stay under the
// table author's control
type table struct {
	name  string
	terms []string
}

// Pack is the compiled rule pack consumed by the filter and detector
type Pack struct {
	Version int
	Meta    map[string]any

	profileKeywords  table
	bodyPhrases      table
	ownerKeywords    table
	femaleNames      table
	foreignLocations table
	domesticCities   table
	vehicleTypes     table
	urgencyWords     table

	whitelist map[string]struct{}
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) {
	return parse(embedded)
}

// LoadFile returns a compiled pack from an override file on disk. Used when
// the host points GATE_RULES_PATH at a product-tuned table set
func LoadFile(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rulepack: read %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Pack, error) {
	var rp rawPackV1
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rulepack: unsupported rules.json version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:          rp.Version,
		Meta:             rp.Meta,
		profileKeywords:  compileTable("profile_keywords", rp.ProfileKeywords),
		bodyPhrases:      compileTable("body_phrases", rp.BodyPhrases),
		ownerKeywords:    compileTable("owner_keywords", rp.OwnerKeywords),
		femaleNames:      compileTable("female_names", rp.FemaleNames),
		foreignLocations: compileTable("foreign_locations", rp.ForeignLocations),
		domesticCities:   compileTable("domestic_cities", rp.DomesticCities),
		vehicleTypes:     compileTable("vehicle_types", rp.VehicleTypes),
		urgencyWords:     compileTable("urgency_words", rp.UrgencyWords),
		whitelist:        make(map[string]struct{}, len(rp.WhitelistIDs)),
	}

	for _, id := range rp.WhitelistIDs {
		if id = strings.TrimSpace(id); id != "" {
			p.whitelist[id] = struct{}{}
		}
	}

	return p, nil
}

func compileTable(name string, terms []string) table {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return table{name: name, terms: out}
}

// AddWhitelist merges extra sender ids into the whitelist, e.g. from env
func (p *Pack) AddWhitelist(ids ...string) {
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			p.whitelist[id] = struct{}{}
		}
	}
}

// Whitelisted reports whether senderID belongs to an operator account
func (p *Pack) Whitelisted(senderID string) bool {
	_, ok := p.whitelist[senderID]
	return ok
}

// MatchProfileKeyword returns the first dispatcher-role keyword found in the
// sender's username or display name
func (p *Pack) MatchProfileKeyword(username, fullName string) (Match, bool) {
	return p.profileKeywords.first(username + " " + fullName)
}

// MatchFemaleName returns the first female name found in the sender's profile.
// Word-boundary matched so a name inside an unrelated longer word does not fire
func (p *Pack) MatchFemaleName(username, fullName string) (Match, bool) {
	return p.femaleNames.first(username + " " + fullName)
}

// MatchForeignLocation returns the first non-domestic place name in text
func (p *Pack) MatchForeignLocation(text string) (Match, bool) {
	return p.foreignLocations.first(text)
}

// MatchBodyPhrase returns the first dispatcher phrase in message body text.
// This is a smaller list than the profile keywords on purpose: body text is
// noisier, so only unambiguous phrases belong here
func (p *Pack) MatchBodyPhrase(text string) (Match, bool) {
	return p.bodyPhrases.first(text)
}

// MatchVehicleType returns the first vehicle keyword in text
func (p *Pack) MatchVehicleType(text string) (Match, bool) {
	return p.vehicleTypes.first(text)
}

// CountDispatcherKeywords returns total occurrences of dispatcher-role
// keywords in text, counting repeats of the same term
func (p *Pack) CountDispatcherKeywords(text string) int {
	return p.profileKeywords.count(text)
}

// CountOwnerKeywords returns total occurrences of cargo-owner counter-keywords
func (p *Pack) CountOwnerKeywords(text string) int {
	return p.ownerKeywords.count(text)
}

// CountUrgencyWords returns total occurrences of urgency vocabulary
func (p *Pack) CountUrgencyWords(text string) int {
	return p.urgencyWords.count(text)
}

// CountDistinctCities returns how many distinct known city names, domestic or
// foreign, text mentions
func (p *Pack) CountDistinctCities(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	n := 0
	for _, t := range p.domesticCities.terms {
		if len(occurrences(lower, t, 1)) > 0 {
			n++
		}
	}
	for _, t := range p.foreignLocations.terms {
		if len(occurrences(lower, t, 1)) > 0 {
			n++
		}
	}
	return n
}

// first returns the first matching term in table order, case-insensitive,
// word-boundary-safe
func (t table) first(s string) (Match, bool) {
	if s == "" {
		return Match{}, false
	}
	lower := strings.ToLower(s)
	for _, term := range t.terms {
		if len(occurrences(lower, term, 1)) > 0 {
			return Match{Term: term, Table: t.name}, true
		}
	}
	return Match{}, false
}

// count returns total boundary-safe occurrences across all terms
func (t table) count(s string) int {
	if s == "" {
		return 0
	}
	lower := strings.ToLower(s)
	n := 0
	for _, term := range t.terms {
		n += len(occurrences(lower, term, -1))
	}
	return n
}

// occurrences finds boundary-safe starts of term in lower, up to max
// (max < 0 means all). Boundaries are checked without consuming neighbor
// runes, so adjacent repeats each count
func occurrences(lower, term string, max int) []int {
	var out []int
	from := 0
	for {
		i := strings.Index(lower[from:], term)
		if i < 0 {
			return out
		}
		start := from + i
		end := start + len(term)
		if boundaryOK(lower, start, end) {
			out = append(out, start)
			if max > 0 && len(out) >= max {
				return out
			}
		}
		from = start + 1
	}
}

// boundaryOK reports that [start,end) is not embedded inside a longer word.
// Go's \b only knows ASCII word chars, which breaks on cyrillic and
// apostrophe spellings, so the check decodes neighbor runes directly
func boundaryOK(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !isWord(prev) && !isWord(next)
}

// Underscore is deliberately a boundary here: telegram handles use it as a
// separator ("dispetcher_uz" must still hit "dispetcher")
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.Is(unicode.Mn, r)
}
