// Package phone extracts and canonicalizes Uzbek mobile numbers from free-form
// message text. Logistics posts format numbers every way imaginable (spaces,
// dots, dashes, brackets, "Tel:" labels), so matching runs over an ordered
// table of format families and every candidate funnels through one shared
// normalization + operator-prefix validation step
package phone

import (
	"regexp"
	"strings"
)

// CountryCode is the prefix every canonical number carries
const CountryCode = "998"

// operatorPrefixes is the allow-list of 2-digit mobile carrier codes. A
// candidate whose subscriber prefix is not listed here is rejected, which is
// what keeps tonnages, prices and cargo ids from matching as phones
var operatorPrefixes = map[string]struct{}{
	"20": {}, "33": {}, "50": {}, "55": {}, "61": {}, "62": {}, "65": {},
	"66": {}, "67": {}, "69": {}, "71": {}, "74": {}, "75": {}, "76": {},
	"77": {}, "78": {}, "79": {}, "88": {}, "90": {}, "91": {}, "93": {},
	"94": {}, "95": {}, "97": {}, "98": {}, "99": {},
}

// sep is the separator class tolerated between digit groups
const sep = `[ \t.\-_()\[\]/]`

// family is one recognized formatting family. Group 1 of the pattern is the
// raw candidate; digit-count resolution and prefix validation happen later in
// normalizeDigits, uniformly for every family
type family struct {
	name    string
	pattern *regexp.Regexp
}

// families are tried in order; within a family candidates are taken in scan
// order. More specific shapes come first so the country-code form wins over
// a bare subscriber-number submatch of the same digits
var families = []family{
	{
		name: "intl",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(\+?` + sep + `*998` + sep + `*\d{2}` + sep + `*\d{3}` + sep + `*\d{2}` + sep + `*\d{2})(?:[^\d]|$)`),
	},
	{
		name: "intl-compact",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(\+?998\d{9})(?:[^\d]|$)`),
	},
	{
		name: "trunk",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(0` + sep + `*\d{2}` + sep + `*\d{3}` + sep + `*\d{2}` + sep + `*\d{2})(?:[^\d]|$)`),
	},
	{
		name: "clipped",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(98` + sep + `*\d{2}` + sep + `*\d{3}` + sep + `*\d{2}` + sep + `*\d{2})(?:[^\d]|$)`),
	},
	{
		name: "bare",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(\d{2}` + sep + `*\d{3}` + sep + `*\d{2}` + sep + `*\d{2})(?:[^\d]|$)`),
	},
	{
		name: "bare-grouped",
		pattern: regexp.MustCompile(
			`(?:^|[^\d])(\d{2}` + sep + `+\d{7})(?:[^\d]|$)`),
	},
}

// candidates returns every group-1 capture of pattern in text. The trailing
// boundary consumes one character, so non-overlapping full-match iteration
// would skip a number whose leading boundary was just eaten; the scan resumes
// at the end of the capture instead, letting one separator serve as the
// trailing boundary of one number and the leading boundary of the next
func candidates(pattern *regexp.Regexp, text string) []string {
	var out []string
	for off := 0; off < len(text); {
		loc := pattern.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			break
		}
		out = append(out, text[off+loc[2]:off+loc[3]])
		if loc[3] == 0 {
			break
		}
		off += loc[3]
	}
	return out
}

// Find returns the first valid number in text in canonical +998XXXXXXXXX form.
// ok is false when no candidate survives validation
func Find(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, f := range families {
		for _, raw := range candidates(f.pattern, text) {
			if canon, ok := normalizeDigits(stripNonDigits(raw)); ok {
				return canon, true
			}
		}
	}
	return "", false
}

// FindAll returns every distinct valid number in text, canonical form, in the
// order the format table discovers them. Candidates that normalize to the
// same digits collapse to one entry
func FindAll(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{}, 4)
	for _, f := range families {
		for _, raw := range candidates(f.pattern, text) {
			canon, ok := normalizeDigits(stripNonDigits(raw))
			if !ok {
				continue
			}
			if _, dup := seen[canon]; dup {
				continue
			}
			seen[canon] = struct{}{}
			out = append(out, canon)
		}
	}
	return out
}

// Count reports how many distinct valid numbers text contains
func Count(text string) int { return len(FindAll(text)) }

// Digits returns the canonical form without the leading plus, for use as a
// tracker key
func Digits(canon string) string { return strings.TrimPrefix(canon, "+") }

// normalizeDigits resolves the digit-count cases to 998 + 9 subscriber digits
// and validates the operator prefix:
//
//	 9 digits  bare subscriber number
//	10 digits  leading trunk 0 to strip
//	11 digits  country code clipped to 98 (stray first 9 lost upstream)
//	12 digits  full 998-prefixed number
func normalizeDigits(digits string) (string, bool) {
	var sub string
	switch len(digits) {
	case 9:
		sub = digits
	case 10:
		if digits[0] != '0' {
			return "", false
		}
		sub = digits[1:]
	case 11:
		if !strings.HasPrefix(digits, "98") {
			return "", false
		}
		sub = digits[2:]
	case 12:
		if !strings.HasPrefix(digits, CountryCode) {
			return "", false
		}
		sub = digits[3:]
	default:
		return "", false
	}
	if _, ok := operatorPrefixes[sub[:2]]; !ok {
		return "", false
	}
	return "+" + CountryCode + sub, true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ValidOperatorPrefix reports whether the 2-digit carrier code is allow-listed
func ValidOperatorPrefix(p string) bool {
	_, ok := operatorPrefixes[p]
	return ok
}
