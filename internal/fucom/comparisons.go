package fucom

// GenerateComparisons derives the adjacent-rank comparisons for an ordering:
// rank 1 vs rank 2, rank 2 vs rank 3, and so on. n criteria yield n-1
// comparisons, all unanswered. Orderings of length 0 or 1 yield an empty slice.
func GenerateComparisons(ordering []Criterion) []PairwiseComparison {
	if len(ordering) < 2 {
		return []PairwiseComparison{}
	}
	out := make([]PairwiseComparison, 0, len(ordering)-1)
	for i := 0; i < len(ordering)-1; i++ {
		out = append(out, PairwiseComparison{
			First:  ordering[i].Code,
			Second: ordering[i+1].Code,
		})
	}
	return out
}

// GenerateAll replaces every comparison sequence of r with a fresh one derived
// from the corresponding ordering. Existing values are discarded.
func GenerateAll(r *Response) {
	for _, g := range Groups {
		r.SetComparisons(g, GenerateComparisons(r.Ordering(g)))
	}
}

// comparisonsMatch reports whether cmps is the sequence GenerateComparisons
// would produce for ordering, ignoring values.
func comparisonsMatch(ordering []Criterion, cmps []PairwiseComparison) bool {
	want := GenerateComparisons(ordering)
	if len(want) != len(cmps) {
		return false
	}
	for i := range want {
		if want[i].First != cmps[i].First || want[i].Second != cmps[i].Second {
			return false
		}
	}
	return true
}
