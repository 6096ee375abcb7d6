package reconcile

// selectFallback returns the admitted prediction with the highest
// effective weight, first seen on ties.
func selectFallback(inputs []admitted) admitted {
	best := inputs[0]
	for _, a := range inputs[1:] {
		if a.weight > best.weight {
			best = a
		}
	}
	return best
}
