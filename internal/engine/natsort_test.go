package engine

import (
	"sort"
	"testing"
)

func TestCompareNatural(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "digit_run_beats_lexical", a: "Lot 2", b: "Lot 10", want: -1},
		{name: "case_insensitive", a: "lot 3", b: "LOT 10", want: -1},
		{name: "plain_strings", a: "Alpha", b: "Beta", want: -1},
		{name: "prefix_sorts_first", a: "Lot", b: "Lot 1", want: -1},
		{name: "equal", a: "Lot 1", b: "Lot 1", want: 0},
		{name: "leading_zeros_not_equal", a: "Lot 01", b: "Lot 1", want: -1},
		{name: "number_vs_letter", a: "1st", b: "first", want: -1},
		{name: "empty_lowest", a: "", b: "A", want: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sign(CompareNatural(tc.a, tc.b))
			if got != tc.want {
				t.Fatalf("CompareNatural(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
			if tc.want != 0 {
				if rev := sign(CompareNatural(tc.b, tc.a)); rev != -tc.want {
					t.Fatalf("CompareNatural(%q, %q) = %d, not antisymmetric", tc.b, tc.a, rev)
				}
			}
		})
	}
}

func TestNaturalSortOrdering(t *testing.T) {
	titles := []string{"Lot 2", "Lot 10", "Lot 1"}
	sort.SliceStable(titles, func(i, j int) bool { return CompareNatural(titles[i], titles[j]) < 0 })
	want := []string{"Lot 1", "Lot 2", "Lot 10"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", titles, want)
		}
	}
}

func TestComparePaths(t *testing.T) {
	cases := []struct {
		name       string
		a, b       []string
		tieA, tieB string
		want       int
	}{
		{
			name: "segment_order",
			a:    []string{"Site", "Lot 2"},
			b:    []string{"Site", "Lot 10"},
			want: -1,
		},
		{
			name: "missing_segment_sorts_first",
			a:    []string{"Site"},
			b:    []string{"Site", "Phase 1"},
			want: -1,
		},
		{
			name: "tie_broken_by_label",
			a:    []string{"Site"},
			b:    []string{"Site"},
			tieA: "100 Alpha",
			tieB: "200 Beta",
			want: -1,
		},
		{
			name: "identical",
			a:    []string{"Site", "Phase 1"},
			b:    []string{"Site", "Phase 1"},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sign(ComparePaths(tc.a, tc.b, tc.tieA, tc.tieB))
			if got != tc.want {
				t.Fatalf("ComparePaths(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	got := SplitPath("A / B / C")
	if len(got) != 3 || got[0] != "A" || got[2] != "C" {
		t.Fatalf("SplitPath = %v", got)
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
