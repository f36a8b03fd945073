package engine

import (
	"strings"
)

// PathSeparator joins hierarchy segments in display titles ("A / B / C").
const PathSeparator = " / "

// SplitPath splits a display title back into its hierarchy segments.
func SplitPath(title string) []string {
	return strings.Split(title, PathSeparator)
}

// CompareNatural orders two strings case-insensitively with digit runs
// compared as integers, so "Lot 2" sorts before "Lot 10". Distinct inputs
// never compare equal: numerically-equal digit runs ("01" vs "1") and
// case-only differences fall through to a byte comparison, which keeps the
// ordering total.
func CompareNatural(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	i, j := 0, 0
	for i < len(la) && j < len(lb) {
		ca, cb := la[i], lb[j]
		if isDigit(ca) && isDigit(cb) {
			ia := i
			for i < len(la) && isDigit(la[i]) {
				i++
			}
			jb := j
			for j < len(lb) && isDigit(lb[j]) {
				j++
			}
			if c := compareDigitRuns(la[ia:i], lb[jb:j]); c != 0 {
				return c
			}
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(la):
		return 1
	case j < len(lb):
		return -1
	}
	if c := strings.Compare(la, lb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// compareDigitRuns compares two runs of ASCII digits as integers of
// unbounded size: strip leading zeros, then shorter means smaller.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ComparePaths orders two rows by their path segments, left to right, using
// CompareNatural per segment. A row that runs out of segments sorts first.
// Full-path ties break on the secondary label (e.g. the cost-code title).
func ComparePaths(a, b []string, tieA, tieB string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for k := 0; k < n; k++ {
		var sa, sb string
		if k < len(a) {
			sa = a[k]
		}
		if k < len(b) {
			sb = b[k]
		}
		if c := CompareNatural(sa, sb); c != 0 {
			return c
		}
	}
	return CompareNatural(tieA, tieB)
}
