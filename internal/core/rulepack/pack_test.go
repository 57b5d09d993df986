package rulepack

import "testing"

func mustLoad(t *testing.T) *Pack {
	t.Helper()
	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestLoad_EmbeddedPack(t *testing.T) {
	p := mustLoad(t)
	if p.Version != 1 {
		t.Fatalf("version: got %d want 1", p.Version)
	}
	if len(p.profileKeywords.terms) == 0 || len(p.domesticCities.terms) == 0 {
		t.Fatalf("embedded tables must not be empty")
	}
}

func TestParse_RejectsUnknownVersion(t *testing.T) {
	if _, err := parse([]byte(`{"version": 2}`)); err == nil {
		t.Fatalf("want error for unsupported version")
	}
}

func TestCompileTable_DedupesAndLowercases(t *testing.T) {
	tbl := compileTable("x", []string{"Fura", "fura", "  ", "TENT"})
	if len(tbl.terms) != 2 {
		t.Fatalf("got %d terms want 2: %v", len(tbl.terms), tbl.terms)
	}
	if tbl.terms[0] != "fura" || tbl.terms[1] != "tent" {
		t.Fatalf("terms not lowercased in file order: %v", tbl.terms)
	}
}

func TestMatchProfileKeyword(t *testing.T) {
	p := mustLoad(t)

	tests := []struct {
		name     string
		username string
		fullName string
		hit      bool
		term     string
	}{
		{"latin in full name", "akmal", "Akmal Dispetcher", true, "dispetcher"},
		{"cyrillic in full name", "", "Диспетчер Анвар", true, "диспетчер"},
		{"underscore handle still hits", "dispetcher_uz", "", true, "dispetcher"},
		{"embedded in longer word does not hit", "", "undispetcherlik", false, ""},
		{"plain driver profile", "akmal_95", "Akmal Karimov", false, ""},
	}
	for _, tc := range tests {
		m, ok := p.MatchProfileKeyword(tc.username, tc.fullName)
		if ok != tc.hit {
			t.Fatalf("%s: hit=%v want %v", tc.name, ok, tc.hit)
		}
		if ok && m.Term != tc.term {
			t.Fatalf("%s: term=%q want %q", tc.name, m.Term, tc.term)
		}
	}
}

func TestMatchFemaleName_BoundarySafe(t *testing.T) {
	p := mustLoad(t)

	if _, ok := p.MatchFemaleName("", "Dilnoza Opa"); !ok {
		t.Fatalf("exact name must match")
	}
	if _, ok := p.MatchFemaleName("", "Dilnozaxon"); ok {
		t.Fatalf("name embedded in a longer word must not match")
	}
}

func TestMatchFemaleName_DigitSuffixHandle(t *testing.T) {
	// "dilnoza95" keeps the digit attached, which makes it a word char
	p := mustLoad(t)
	if _, ok := p.MatchFemaleName("dilnoza95", ""); ok {
		t.Fatalf("digit-glued handle is not a clean name token")
	}
	if _, ok := p.MatchFemaleName("dilnoza_95", ""); !ok {
		t.Fatalf("underscore-separated handle must match")
	}
}

func TestMatchForeignLocation(t *testing.T) {
	p := mustLoad(t)

	if m, ok := p.MatchForeignLocation("toshkentdan moskva ga yuk bor"); !ok || m.Term != "moskva" {
		t.Fatalf("got (%v, %v) want moskva", m, ok)
	}
	if _, ok := p.MatchForeignLocation("toshkent dan samarqand ga"); ok {
		t.Fatalf("domestic route must not flag as foreign")
	}
	if m, ok := p.MatchForeignLocation("Груз в МОСКВА есть"); !ok || m.Term != "москва" {
		t.Fatalf("cyrillic uppercase: got (%v, %v)", m, ok)
	}
}

func TestMatchBodyPhrase(t *testing.T) {
	p := mustLoad(t)

	if m, ok := p.MatchBodyPhrase("bizda dispetcherlik xizmati arzon"); !ok || m.Term != "dispetcherlik xizmati" {
		t.Fatalf("got (%v, %v)", m, ok)
	}
	if _, ok := p.MatchBodyPhrase("yuk bor toshkentdan"); ok {
		t.Fatalf("plain cargo post must not hit a body phrase")
	}
}

func TestCountDispatcherKeywords_AdjacentRepeats(t *testing.T) {
	p := mustLoad(t)

	if got := p.CountDispatcherKeywords("dispetcher dispetcher dispetcher"); got != 3 {
		t.Fatalf("adjacent repeats: got %d want 3", got)
	}
	if got := p.CountDispatcherKeywords("logistika markazi"); got != 1 {
		t.Fatalf("logistika must count once, not also as embedded logist: got %d", got)
	}
	if got := p.CountDispatcherKeywords("oddiy haydovchi xabari"); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestCountOwnerAndUrgency(t *testing.T) {
	p := mustLoad(t)

	if got := p.CountOwnerKeywords("yukim bor, yuk egasi man"); got != 2 {
		t.Fatalf("owner: got %d want 2", got)
	}
	if got := p.CountUrgencyWords("srochno srochno bugun kerak"); got != 3 {
		t.Fatalf("urgency: got %d want 3", got)
	}
}

func TestCountDistinctCities(t *testing.T) {
	p := mustLoad(t)

	// repeats of the same city count once, mixed scripts count per spelling
	got := p.CountDistinctCities("toshkent toshkent samarqand moskva almaty")
	if got != 4 {
		t.Fatalf("got %d want 4", got)
	}
	if got := p.CountDistinctCities(""); got != 0 {
		t.Fatalf("empty: got %d want 0", got)
	}
}

func TestMatchVehicleType(t *testing.T) {
	p := mustLoad(t)

	if m, ok := p.MatchVehicleType("fura kerak 20 tonna"); !ok || m.Term != "fura" {
		t.Fatalf("got (%v, %v)", m, ok)
	}
	if _, ok := p.MatchVehicleType("konteyner bor"); !ok {
		t.Fatalf("konteyner must match")
	}
	if _, ok := p.MatchVehicleType("oddiy matn"); ok {
		t.Fatalf("no vehicle expected")
	}
}

func TestWhitelist(t *testing.T) {
	p := mustLoad(t)

	if p.Whitelisted("4242") {
		t.Fatalf("embedded whitelist ships empty")
	}
	p.AddWhitelist(" 4242 ", "", "777")
	if !p.Whitelisted("4242") || !p.Whitelisted("777") {
		t.Fatalf("added ids must be whitelisted")
	}
	if p.Whitelisted("") {
		t.Fatalf("empty id must never whitelist")
	}
}

func TestOccurrences_NonConsumingBoundaries(t *testing.T) {
	got := occurrences("tez tez tez", "tez", -1)
	if len(got) != 3 {
		t.Fatalf("shared space boundaries: got %d want 3", len(got))
	}
	got = occurrences("teztez", "tez", -1)
	if len(got) != 0 {
		t.Fatalf("glued repeats are one word: got %d want 0", len(got))
	}
}
