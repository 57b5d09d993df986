package normalize

import (
	"strings"
	"unicode/utf8"
)

// IsEmoji reports whether r is an emoji or pictographic rune. The ranges are
// curated rather than exhaustive: they cover what Telegram clients actually
// emit, and missing an exotic codepoint only costs one count
func IsEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF: // misc symbols and pictographs
		return true
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport and map
		return true
	case r >= 0x1F900 && r <= 0x1F9FF: // supplemental symbols
		return true
	case r >= 0x1FA70 && r <= 0x1FAFF: // symbols extended-A
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flag halves)
		return true
	case r >= 0x2600 && r <= 0x26FF: // misc symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r == 0x2B50 || r == 0x2B55 || r == 0x203C || r == 0x2049:
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	}
	return false
}

// CountEmoji returns the number of emoji runes in s. Variation selectors are
// not counted on their own so a styled glyph still counts once
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0xFE00 && r <= 0xFE0F {
			continue
		}
		if IsEmoji(r) {
			n++
		}
	}
	return n
}

// CountFlags returns the number of country-flag emoji in s. A flag is a pair
// of regional indicator runes
func CountFlags(s string) int {
	indicators := 0
	for _, r := range s {
		if r >= 0x1F1E6 && r <= 0x1F1FF {
			indicators++
		}
	}
	return indicators / 2
}

// CountMentions returns the number of @username tokens in s
func CountMentions(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '@' {
			continue
		}
		// a mention needs at least one word char after the @
		if i+1 < len(s) && isMentionChar(s[i+1]) {
			n++
			// skip over the username body
			j := i + 1
			for j < len(s) && isMentionChar(s[j]) {
				j++
			}
			i = j - 1
		}
	}
	return n
}

func isMentionChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// MaxCharRun returns the length of the longest run of one repeated rune
func MaxCharRun(s string) int {
	best, run := 0, 0
	prev := rune(-1)
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		if run > best {
			best = run
		}
	}
	return best
}

// MaxBlankLineRun returns the longest run of consecutive blank lines in s.
// A line is blank when it is empty or whitespace only
func MaxBlankLineRun(s string) int {
	best, run := 0, 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// CountLines returns the number of lines in s
func CountLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// RuneLen returns the rune length of s
func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// HasSeparatorRun reports whether s contains a run of 4 or more box-drawing
// or decorative separator characters, the telltale of templated broker posts
func HasSeparatorRun(s string) bool {
	run := 0
	for _, r := range s {
		if isSeparatorRune(r) {
			run++
			if run >= 4 {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

func isSeparatorRune(r rune) bool {
	switch {
	case r >= 0x2500 && r <= 0x257F: // box drawing
		return true
	case r >= 0x2580 && r <= 0x259F: // block elements
		return true
	case r == '=' || r == '-' || r == 'ـ' || r == '▪' || r == '➖':
		return true
	}
	return false
}
