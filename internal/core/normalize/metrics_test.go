package normalize

import "testing"

func TestCountEmoji(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"none", "yuk bor toshkent", 0},
		{"transport and fire", "🚚 yuk bor 🔥🔥", 3},
		{"variation selector not double counted", "✈️", 1},
		{"dingbats", "✅✅", 2},
		{"flag counts as two runes", "🇺🇿", 2},
	}
	for _, tc := range tests {
		if got := CountEmoji(tc.in); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestCountFlags(t *testing.T) {
	if got := CountFlags("🇺🇿 Toshkent 🇷🇺 Moskva 🇰🇿 Almaty"); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
	if got := CountFlags("no flags here"); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestCountMentions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"none", "yuk bor", 0},
		{"single", "yozing @dispetcher_uz", 1},
		{"two", "@dispetcher_uz yoki @cargo_servis", 2},
		{"bare at sign ignored", "narx @ kelishiladi", 0},
		{"adjacent in punctuation", "(@one,@two)", 2},
	}
	for _, tc := range tests {
		if got := CountMentions(tc.in); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestMaxCharRun(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"no repeats", "abc", 1},
		{"digits run", "aaa9999999bb", 7},
		{"cyrillic run", "ооооо", 5},
	}
	for _, tc := range tests {
		if got := MaxCharRun(tc.in); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestMaxBlankLineRun(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"single line", "yuk bor", 0},
		{"one blank between", "a\n\nb", 1},
		{"three blanks", "a\n\n\n\nb", 3},
		{"whitespace-only lines count", "a\n \n\t\nb", 2},
		{"runs do not join across text", "a\n\nb\n\nc", 1},
	}
	for _, tc := range tests {
		if got := MaxBlankLineRun(tc.in); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestCountLines(t *testing.T) {
	if got := CountLines(""); got != 0 {
		t.Fatalf("empty: got %d want 0", got)
	}
	if got := CountLines("one"); got != 1 {
		t.Fatalf("one: got %d want 1", got)
	}
	if got := CountLines("a\nb\nc"); got != 3 {
		t.Fatalf("three: got %d want 3", got)
	}
}

func TestHasSeparatorRun(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain text", "yuk bor toshkent", false},
		{"short dash run", "a --- b", false},
		{"equals banner", "==== NARX ====", true},
		{"box drawing", "────────", true},
		{"heavy minus emoji", "➖➖➖➖", true},
		{"hyphenated words stay clean", "non-stop re-run co-op", false},
	}
	for _, tc := range tests {
		if got := HasSeparatorRun(tc.in); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}
