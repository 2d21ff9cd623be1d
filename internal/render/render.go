// Package render turns world state into human-readable text for the CLI.
// The simulation core exposes only fields; every formatting decision
// lives here.
package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/empires-beyond/internal/engine"
)

// Dashboard is the top-level summary view. With reveal set, hidden state
// (resonance debt and the affinity pair) appears in extra columns.
func Dashboard(ws *engine.WorldState, reveal bool) string {
	var b strings.Builder

	collapsed := 0
	for _, hab := range ws.Colony.Habitats {
		if hab.Status == engine.HabitatCollapsed {
			collapsed++
		}
	}
	spaceLabel := "LOCKED"
	if ws.Colony.Unlocked {
		spaceLabel = "UNLOCKED"
	}

	fmt.Fprintf(&b, "=== Empires Beyond — Turn %d ===\n", ws.Turn)
	fmt.Fprintf(&b, "Market: inflation=%.2f | Wars=%d | Treaties=%d | Space=%s | Habitats=%d (collapsed=%d)\n\n",
		ws.Market.Inflation, len(ws.Wars), len(ws.Treaties), spaceLabel, len(ws.Colony.Habitats), collapsed)

	header := "Faction | Pop | Morale | Unrest | Credits | Food | Water | Energy | Units"
	if reveal {
		header += " | rho | (o,h)"
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)+16) + "\n")

	for _, name := range ws.FactionNames() {
		f := ws.Factions[name]
		res := f.Resources
		row := fmt.Sprintf("%s | %s | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f",
			name, humanize.Comma(int64(f.Population)),
			res[engine.ResMorale], f.Unrest, res[engine.ResCredits],
			res[engine.ResFood], res[engine.ResWater], res[engine.ResEnergy], res[engine.ResUnits])
		if reveal {
			row += fmt.Sprintf(" | %.2f | (%.2f,%.2f)", f.Rho, f.Affinity.O, f.Affinity.H)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n" + Wars(ws) + "\n" + Treaties(ws))
	return b.String()
}

// FactionDetail renders one faction's full public view.
func FactionDetail(ws *engine.WorldState, name string, reveal bool) string {
	f, ok := ws.Factions[name]
	if !ok {
		// Case-insensitive fallback for CLI convenience.
		for _, n := range ws.FactionNames() {
			if strings.EqualFold(n, name) {
				f = ws.Factions[n]
				name = n
				break
			}
		}
	}
	if f == nil {
		return fmt.Sprintf("Unknown faction '%s'. Try: factions", name)
	}

	var resParts []string
	for _, r := range engine.AllResources() {
		resParts = append(resParts, fmt.Sprintf("%s=%.1f", r, f.Resources[r]))
	}

	var done, active []string
	for tech, v := range f.Tech {
		if v == 1 {
			done = append(done, tech)
		}
	}
	for pol, on := range f.Policies {
		if on {
			active = append(active, pol)
		}
	}
	sortStrings(done)
	sortStrings(active)

	lines := []string{
		name + " [" + strings.Join(f.Traits, ", ") + "]",
		fmt.Sprintf("  pop=%s  morale=%.1f  unrest=%.1f", humanize.Comma(int64(f.Population)), f.Resources[engine.ResMorale], f.Unrest),
		fmt.Sprintf("  war_exhaust=%.1f  intel=%.1f", f.WarExhaust, f.Intel),
		"  resources: " + strings.Join(resParts, ", "),
		"  tech: " + orNone(done),
		"  policies: " + orNone(active),
	}
	if reveal {
		lines = append(lines, fmt.Sprintf("  (hidden) rho=%.3f affinity=(%.3f, %.3f)", f.Rho, f.Affinity.O, f.Affinity.H))
	}
	return strings.Join(lines, "\n")
}

// Factions renders the short roster list.
func Factions(ws *engine.WorldState) string {
	lines := []string{"Factions:"}
	for _, name := range ws.FactionNames() {
		f := ws.Factions[name]
		lines = append(lines, fmt.Sprintf("  - %s (pop=%s, morale=%.1f, unrest=%.1f)",
			name, humanize.Comma(int64(f.Population)), f.Resources[engine.ResMorale], f.Unrest))
	}
	return strings.Join(lines, "\n")
}

// Research renders researched tech per faction.
func Research(ws *engine.WorldState) string {
	lines := []string{"Research status:"}
	for _, name := range ws.FactionNames() {
		var done []string
		for tech, v := range ws.Factions[name].Tech {
			if v == 1 {
				done = append(done, tech)
			}
		}
		sortStrings(done)
		lines = append(lines, "  - "+name+": "+orNone(done))
	}
	return strings.Join(lines, "\n")
}

// Policies renders active policies per faction.
func Policies(ws *engine.WorldState) string {
	lines := []string{"Policies active:"}
	for _, name := range ws.FactionNames() {
		var on []string
		for pol, active := range ws.Factions[name].Policies {
			if active {
				on = append(on, pol)
			}
		}
		sortStrings(on)
		lines = append(lines, "  - "+name+": "+orNone(on))
	}
	return strings.Join(lines, "\n")
}

// Wars lists active wars with cumulative losses.
func Wars(ws *engine.WorldState) string {
	if len(ws.Wars) == 0 {
		return "Active wars: none"
	}
	lines := []string{"Active wars:"}
	for i, w := range ws.Wars {
		lines = append(lines, fmt.Sprintf("  [%d] %s vs %s | months=%d | losses: %s=%.1f, %s=%.1f",
			i, w.A, w.B, w.Months, w.A, w.ALosses, w.B, w.BLosses))
	}
	return strings.Join(lines, "\n")
}

// Treaties lists active treaties with time to live.
func Treaties(ws *engine.WorldState) string {
	if len(ws.Treaties) == 0 {
		return "Treaties: none"
	}
	lines := []string{"Treaties:"}
	for i, t := range ws.Treaties {
		lines = append(lines, fmt.Sprintf("  [%d] %s | %s <-> %s | ttl=%d", i, t.Kind, t.A, t.B, t.TTL))
	}
	return strings.Join(lines, "\n")
}

// MarketView renders the macro economy.
func MarketView(ws *engine.WorldState) string {
	m := ws.Market
	return fmt.Sprintf("Market:\n  inflation=%.3f\n  credit_supply_growth=%.2f\n  metal_backing=%.2f",
		m.Inflation, m.CreditGrowth, m.MetalBacking)
}

func orNone(xs []string) string {
	if len(xs) == 0 {
		return "(none)"
	}
	return strings.Join(xs, ", ")
}
