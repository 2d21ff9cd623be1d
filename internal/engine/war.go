// War engine — monthly combat resolution, casualty accounting, and the
// termination checks that end a war and emit the peace notification.
package engine

import "log/slog"

// warTick advances every active war one month, then removes ended wars in a
// single filter pass so a war whose both sides break the same month still
// produces both peace notifications.
func (w *World) warTick() {
	ended := make(map[*War]bool)

	for _, war := range w.State.Wars {
		war.Months++

		fa := w.State.Factions[war.A]
		fb := w.State.Factions[war.B]

		// War-specific drag on hidden state, distinct from the diplomacy
		// update that already ran this turn.
		fa.Rho += 0.03
		fb.Rho += 0.03

		powerA := combatPower(fa)
		powerB := combatPower(fb)

		lossA := clamp(0.5+0.02*powerB, 0, 10)
		lossB := clamp(0.5+0.02*powerA, 0, 10)

		applyCasualties(fa, lossA)
		applyCasualties(fb, lossB)
		war.ALosses += lossA
		war.BLosses += lossB

		if w.checkTermination(war, war.A, war.B, fa) {
			ended[war] = true
		}
		if w.checkTermination(war, war.B, war.A, fb) {
			ended[war] = true
		}
	}

	if len(ended) > 0 {
		kept := w.State.Wars[:0]
		for _, war := range w.State.Wars {
			if !ended[war] {
				kept = append(kept, war)
			}
		}
		w.State.Wars = kept
	}
}

// combatPower derives a side's effective strength from units, morale and
// supply, then applies the resonance-debt penalty of up to 15%.
func combatPower(f *Faction) float64 {
	supply := (f.Resources[ResFood] + f.Resources[ResEnergy]) / 100
	power := f.Resources[ResUnits] * (0.6 + 0.004*f.Resources[ResMorale]) * (1 + 0.1*supply)
	penalty := 0.15 * clamp(f.Rho, 0, 2) / 2
	return power * (1 - penalty)
}

// applyCasualties subtracts losses and the monthly attrition on morale and
// exhaustion from one side.
func applyCasualties(f *Faction, loss float64) {
	f.Resources[ResUnits] -= loss
	if f.Resources[ResUnits] < 0 {
		f.Resources[ResUnits] = 0
	}
	f.WarExhaust = clamp(f.WarExhaust+2+2*f.Rho, 0, 100)
	f.Resources[ResMorale] = clamp(f.Resources[ResMorale]-1, 0, 100)
}

// checkTermination tests one side's break conditions and, when met, emits
// the peace notification naming the other side as winner.
func (w *World) checkTermination(war *War, loser, winner string, f *Faction) bool {
	if f.Resources[ResUnits] >= 5 && f.WarExhaust <= 95 {
		return false
	}
	slog.Info("war ended", "winner", winner, "loser", loser, "months", war.Months)
	w.Sink.Emit("peace", map[string]any{"winner": winner, "loser": loser})
	return true
}

// startWar appends a new war if the global cap allows it. Returns false when
// rejected; the caller decides whether rejection is silent.
func (w *World) startWar(a, b string) bool {
	if len(w.State.Wars) >= MaxWars {
		return false
	}
	w.State.Wars = append(w.State.Wars, &War{A: a, B: b})
	w.Sink.Emit("war_declared", map[string]any{"a": a, "b": b})
	return true
}
