package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	def := []string{"a", "b"}
	if got := IfEmpty(nil, def); len(got) != 2 {
		t.Fatalf("nil input should yield default, got %v", got)
	}
	if got := IfEmpty([]string{}, def); len(got) != 2 {
		t.Fatalf("empty input should yield default, got %v", got)
	}
	in := []string{"x"}
	if got := IfEmpty(in, def); len(got) != 1 || got[0] != "x" {
		t.Fatalf("non-empty input should pass through, got %v", got)
	}

	if got := IfEmpty[int](nil, nil); got != nil {
		t.Fatalf("nil default should stay nil, got %v", got)
	}
}
