// Diplomacy engine — pairwise trust scoring, treaty lifecycle, and the
// per-turn affinity tertiation that evolves each faction's hidden state.
package engine

import "github.com/talgya/empires-beyond/internal/affinity"

// TrustBand is the qualitative tier of a trust score.
type TrustBand string

const (
	BandAllied  TrustBand = "Allied"
	BandWarm    TrustBand = "Warm"
	BandNeutral TrustBand = "Neutral"
	BandCold    TrustBand = "Cold"
	BandHostile TrustBand = "Hostile"
)

// treatyTrustBonus is the per-kind trust contribution of an active treaty.
func treatyTrustBonus(kind TreatyKind) float64 {
	switch kind {
	case TreatyTradePact:
		return 8
	case TreatyNonAggression:
		return 10
	case TreatyResearchExchange:
		return 6
	case TreatyAlliance:
		return 14
	}
	return 0
}

// treatyLambdaBonus is the per-kind adaptation-rate contribution.
func treatyLambdaBonus(kind TreatyKind) float64 {
	switch kind {
	case TreatyTradePact:
		return 0.08
	case TreatyNonAggression:
		return 0.10
	case TreatyResearchExchange:
		return 0.06
	case TreatyAlliance:
		return 0.12
	}
	return 0
}

// TreatyTTL is the signing lifetime for each treaty kind, in turns.
func TreatyTTL(kind TreatyKind) int {
	switch kind {
	case TreatyTradePact:
		return 10
	case TreatyNonAggression:
		return 12
	case TreatyResearchExchange:
		return 8
	case TreatyAlliance:
		return 15
	}
	return 12
}

// TrustScore computes the diplomatic standing between two factions in
// [0,100]. Treaty bonuses diminish with each treaty already counted; the
// running count starts at zero on every call.
func (w *World) TrustScore(a, b string) float64 {
	fa := w.State.Factions[a]
	fb := w.State.Factions[b]

	bonus := 0.0
	counted := 0
	for _, t := range w.State.Treaties {
		if !t.Between(a, b) {
			continue
		}
		bonus += treatyTrustBonus(t.Kind) / (1 + 5*float64(counted))
		counted++
	}

	score := 50 +
		30*affinity.Alignment(fa.Affinity, fb.Affinity) -
		15*fa.Rho - 15*fb.Rho +
		bonus
	return clamp(score, 0, 100)
}

// Band maps a trust score to its qualitative tier.
func Band(score float64) TrustBand {
	switch {
	case score >= 80:
		return BandAllied
	case score >= 60:
		return BandWarm
	case score >= 40:
		return BandNeutral
	case score >= 20:
		return BandCold
	default:
		return BandHostile
	}
}

// diplomacyTick ages treaties and evolves every faction's hidden affinity.
// This is the only writer of the affinity pair; the war engine's separate
// debt nudge runs after it in the same turn.
func (w *World) diplomacyTick() {
	kept := w.State.Treaties[:0]
	for _, t := range w.State.Treaties {
		t.TTL--
		if t.TTL > 0 {
			kept = append(kept, t)
		}
	}
	w.State.Treaties = kept

	for _, name := range w.State.FactionNames() {
		f := w.State.Factions[name]

		lambda := 0.06
		for _, t := range w.State.Treaties {
			if t.Involves(name) {
				lambda += treatyLambdaBonus(t.Kind)
			}
		}
		if f.Policies["propaganda"] {
			lambda += 0.03
		}
		lambda = clamp(lambda, 0, 0.35)

		f.Affinity = affinity.Tertiate(f.Affinity, lambda)
		f.Rho = affinity.UpdateDebt(f.Rho, f.Affinity, 0.20)
	}
}
