// Package affinity provides the hidden two-axis affinity calculus.
// Every diplomatic and military formula reads these values; only the
// per-turn diplomacy pass may write them, through Tertiate and UpdateDebt.
package affinity

import "math"

// Pair is a faction's hidden orientation state. Both axes live in [0,1].
type Pair struct {
	O float64 `json:"o"`
	H float64 `json:"h"`
}

// Phase is the average affinity level of a pair.
func Phase(p Pair) float64 {
	return (p.O + p.H) / 2
}

// Tension is the internal divergence of a pair.
func Tension(p Pair) float64 {
	return math.Abs(p.O - p.H)
}

// Tertiate relaxes both axes toward each other at rate lambda, slowed as
// either axis approaches its ceiling. This is the sole evolution rule for
// hidden affinity.
func Tertiate(p Pair, lambda float64) Pair {
	lambda = clamp(lambda, 0, 1)
	o := p.O + lambda*(p.H-p.O)*(1-p.O)
	h := p.H + lambda*(p.O-p.H)*(1-p.H)
	return Pair{O: clamp(o, 0, 1), H: clamp(h, 0, 1)}
}

// Alignment maps the combined per-axis divergence between two pairs to a
// signed similarity score in [-1,1].
func Alignment(a, b Pair) float64 {
	div := math.Abs(a.O-b.O) + math.Abs(a.H-b.H)
	return clamp(2*clamp(1-div, 0, 1)-1, -1, 1)
}

// UpdateDebt evolves resonance debt: growth with divergence squared, decay
// with average affinity level scaled by mu, floored at zero.
func UpdateDebt(rho float64, p Pair, mu float64) float64 {
	t := Tension(p)
	return math.Max(0, rho+t*t-mu*Phase(p))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
