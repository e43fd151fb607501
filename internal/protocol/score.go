package protocol

// maxBasket is the largest legitimate single scoring step.
const maxBasket = 3

// ResolveScore turns three ambiguous digit slots into a score.
//
// The board does not distinguish a single digit shown in the tens slot from a multiple
// of ten, and some configurations reuse the hundreds slot, so the last known score is
// used to pick between interpretations. hasPrev is false when no score is known yet.
func ResolveScore(d1, d2, d3, prev int, hasPrev bool) int {
	switch {
	case d1 == 0 && d2 == 0 && d3 == 0:
		return 0
	case d1 == 0 && d3 == 0 && d2 > 0:
		// Below ten the board does not pad with a tens digit.
		if hasPrev && prev >= 10 {
			return d2 * 10
		}
		return d2
	case d1 == 0 && d2 == 0 && d3 > 0:
		return d3
	case d1 == 0:
		return d2*10 + d3
	}

	cand2 := d1*10 + d2
	cand3 := d1*100 + d2*10 + d3

	if !hasPrev {
		if cand3 >= 100 {
			return cand3
		}
		return cand2
	}

	if prev >= 100 {
		if isSmallStep(cand3, prev) {
			return cand3
		}
		if isSmallStep(cand2, prev) {
			return cand2
		}
		if abs(cand3-prev) < abs(cand2-prev) {
			return cand3
		}
		return cand2
	}

	if isSmallStep(cand2, prev) {
		return cand2
	}
	if isSmallStep(cand3, prev) {
		return cand3
	}
	if abs(cand2-prev) < abs(cand3-prev) {
		return cand2
	}
	return cand3
}

func isSmallStep(next, prev int) bool {
	diff := next - prev
	return diff >= 0 && diff <= maxBasket
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
