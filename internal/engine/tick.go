// Turn scheduler — the single entry point that advances the world one
// discrete turn. Subsystem order is a hard contract: diplomacy must evolve
// affinity before war reads resonance debt, and the colony step must run
// before the event phase so both consume the random stream in the
// documented sequence.
package engine

import (
	"fmt"
	"log/slog"
)

// Tick advances the world one turn and returns the ordered turn log: the
// summary line, then event lines, then colony lines.
func (w *World) Tick() []string {
	w.State.Turn++

	for _, name := range w.State.FactionNames() {
		growPopulation(w.State.Factions[name])
	}

	w.economyTick()
	w.diplomacyTick()
	w.warTick()
	colonyLines := w.colonyTick()
	eventLines := w.eventTick()

	log := []string{w.summaryLine()}
	log = append(log, eventLines...)
	log = append(log, colonyLines...)

	slog.Debug("turn complete",
		"turn", w.State.Turn,
		"wars", len(w.State.Wars),
		"treaties", len(w.State.Treaties),
		"inflation", fmt.Sprintf("%.3f", w.State.Market.Inflation),
	)
	return log
}

// growPopulation applies the per-turn demographic update. The growth delta
// is clamped to [-50, 80] and population never drops below 100.
func growPopulation(f *Faction) {
	rate := 0.003 + 0.00002*f.Resources[ResMorale] - 0.00003*f.Unrest
	if f.Policies["open_borders"] {
		rate += 0.001
	}
	if f.Policies["closed_borders"] {
		rate -= 0.0005
	}

	delta := clamp(float64(f.Population)*rate, -50, 80)
	f.Population += int(delta)
	if f.Population < 100 {
		f.Population = 100
	}
}

func (w *World) summaryLine() string {
	return fmt.Sprintf("— Turn %d | wars=%d treaties=%d inflation=%.2f —",
		w.State.Turn, len(w.State.Wars), len(w.State.Treaties), w.State.Market.Inflation)
}
