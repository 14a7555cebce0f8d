package picker

import "testing"

func TestNextCycles(t *testing.T) {
	ids := []string{"a", "b", "c"}
	cases := []struct {
		current string
		want    string
	}{
		{"a", "b"},
		{"b", "c"},
		{"c", "a"},
		{"zz", "a"},
		{"", "a"},
	}
	for _, tc := range cases {
		if got := Next(ids, tc.current); got != tc.want {
			t.Fatalf("Next(%q): expected %q, got %q", tc.current, tc.want, got)
		}
	}
	if got := Next(nil, "a"); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestWeightedAvoidsCurrent(t *testing.T) {
	p := NewSeeded(1)
	ids := []string{"a", "b"}
	for i := 0; i < 50; i++ {
		if got := p.Weighted(ids, "a", nil, 0); got != "b" {
			t.Fatalf("expected b, got %q", got)
		}
	}
	if got := p.Weighted([]string{"only"}, "only", nil, 3); got != "only" {
		t.Fatalf("expected single id, got %q", got)
	}
	if got := p.Weighted(nil, "", nil, 3); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestWeightedFavorsWeak(t *testing.T) {
	p := NewSeeded(42)
	ids := []string{"a", "b", "c", "d"}
	weak := map[string]struct{}{"d": {}}
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		counts[p.Weighted(ids, "", weak, 9)]++
	}
	// d carries 10 of 13 weight units.
	if counts["d"] < 1200 {
		t.Fatalf("expected weak glyph to dominate, got %v", counts)
	}
	for _, id := range []string{"a", "b", "c"} {
		if counts[id] == 0 {
			t.Fatalf("expected %s to be picked at least once, got %v", id, counts)
		}
	}
}
