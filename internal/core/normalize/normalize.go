// Package normalize provides the deterministic text normalizer behind
// duplicate-content fingerprinting, plus the text metrics the filter and
// detector rules read (emoji, mentions, blank lines, character runs).
// Fingerprint pipeline order
// 1 sanitize and repair UTF-8 drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth to ASCII
// 6 Strip emoji and pictographs
// 7 Collapse whitespace runs to single spaces and trim
// 8 Truncate to the first 200 runes
//
// Two posts that differ only in emoji decoration or whitespace collapse to
// the same fingerprint. That is how cross-group duplicate spam is caught
// even when the spammer varies the flourishes per group
package normalize

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// FingerprintRunes caps the normalized form before hashing. Long templated
// posts differ only past this point, which is exactly the spam we want to fold
const FingerprintRunes = 200

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the fingerprint form of s following the pipeline above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 strip emoji decoration
	ns = stripEmoji(ns)

	// 7 collapse whitespace and trim
	ns = collapseSpaces(ns)

	// 8 truncate
	return truncateRunes(ns, FingerprintRunes)
}

// Fingerprint returns the stable content hash of s, hex encoded
func (n *Normalizer) Fingerprint(s string) string {
	return Hash(n.Normalize(s))
}

// Hash hex-encodes the FNV-64a sum of an already normalized string. Callers
// that need the normalized form anyway use this to avoid normalizing twice
func Hash(norm string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(norm))
	return fmt.Sprintf("%016x", h.Sum64())
}

func stripEmoji(s string) string {
	if !strings.ContainsFunc(s, IsEmoji) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSpaces converts every whitespace run, newlines included, to a single
// ASCII space and trims the edges. Fingerprints deliberately ignore layout
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
