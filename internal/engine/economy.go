// Resource engine — per-faction production and consumption, policy-driven
// multipliers, and the once-per-turn inflation macro step.
package engine

// Per-capita consumption rates, applied per 1000 population.
const (
	foodPerCapita   = 3.0
	waterPerCapita  = 2.5
	energyPerCapita = 2.0

	shortageThreshold = 20.0
)

// economyTick runs production, consumption and shortage effects for every
// faction, then the macro inflation step.
func (w *World) economyTick() {
	for _, name := range w.State.FactionNames() {
		w.factionEconomy(w.State.Factions[name])
	}
	w.macroTick()
}

// factionEconomy applies one faction's production and consumption.
func (w *World) factionEconomy(f *Faction) {
	mult := w.policyMultipliers(f)
	for _, r := range AllResources() {
		f.Resources[r] += f.Production[r] * mult[r]
	}

	popScale := float64(f.Population) / 1000.0
	f.Resources[ResFood] -= foodPerCapita * popScale
	f.Resources[ResWater] -= waterPerCapita * popScale
	f.Resources[ResEnergy] -= energyPerCapita * popScale

	if f.Resources[ResFood] < shortageThreshold || f.Resources[ResWater] < shortageThreshold {
		f.Resources[ResMorale] -= 5
		f.Unrest += 4
	} else {
		f.Resources[ResMorale] += 0.5
	}

	for _, r := range AllResources() {
		if f.Resources[r] < 0 {
			f.Resources[r] = 0
		}
	}
	f.Resources[ResMorale] = clamp(f.Resources[ResMorale], 0, 100)
	f.Unrest = clamp(f.Unrest, 0, 100)
}

// policyMultipliers builds the production multiplier table for a faction:
// base 1.0 per resource plus the additive deltas of every active policy.
func (w *World) policyMultipliers(f *Faction) map[Resource]float64 {
	mult := make(map[Resource]float64, len(AllResources()))
	for _, r := range AllResources() {
		mult[r] = 1.0
	}
	for _, name := range w.Catalog.PolicyNames() {
		if !f.Policies[name] {
			continue
		}
		for res, delta := range w.Catalog.Policies[name].Multipliers {
			mult[Resource(res)] += delta
		}
	}
	return mult
}

// macroTick drifts inflation from credit growth and metal backing, amplified
// by the average resonance debt across factions, clamped to [0, 0.50].
func (w *World) macroTick() {
	m := &w.State.Market
	avgRho := 0.0
	names := w.State.FactionNames()
	for _, name := range names {
		avgRho += w.State.Factions[name].Rho
	}
	if len(names) > 0 {
		avgRho /= float64(len(names))
	}

	drift := 0.01*m.CreditGrowth - 0.005*m.MetalBacking
	m.Inflation += drift * (1 + 0.25*avgRho)
	m.Inflation = clamp(m.Inflation, 0, 0.50)
}
