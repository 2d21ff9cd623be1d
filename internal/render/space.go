// Space view — habitat status, shipment queue, postmortem history, and a
// purely decorative starfield backdrop generated from the game seed.
package render

import (
	"fmt"
	"sort"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/empires-beyond/internal/engine"
)

// Space renders the colony subsystem view.
func Space(ws *engine.WorldState, reveal bool) string {
	if !ws.Colony.Unlocked {
		return "Space operations: LOCKED (research the orbital gate technology to unlock)."
	}

	var b strings.Builder
	b.WriteString(starfield(ws.Seed, 60, 4))
	fmt.Fprintf(&b, "Space operations (unlocked by %s)\n", ws.Colony.UnlockedBy)

	if len(ws.Colony.Habitats) == 0 {
		b.WriteString("Habitats: none built\n")
	} else {
		b.WriteString("Habitats:\n")
		for _, name := range ws.HabitatNames() {
			hab := ws.Colony.Habitats[name]
			if hab.Status == engine.HabitatCollapsed {
				fmt.Fprintf(&b, "  - %s [%s] COLLAPSED\n", name, hab.Owner)
				continue
			}
			fmt.Fprintf(&b, "  - %s [%s] O2=%.1f H2O=%.1f waste=%.1f rad=%.0f morale=%.1f power=%.0f/%.0f\n",
				name, hab.Owner, hab.Oxygen, hab.Water, hab.Waste, hab.Radiation, hab.Morale,
				hab.PowerGen, hab.PowerUse)
		}
	}

	if len(ws.Colony.Shipments) > 0 {
		b.WriteString("Shipments in transit:\n")
		shipments := append([]engine.Shipment(nil), ws.Colony.Shipments...)
		sort.Slice(shipments, func(i, j int) bool { return shipments[i].Arrival < shipments[j].Arrival })
		for _, sh := range shipments {
			fmt.Fprintf(&b, "  - %.0f %s -> %s (arrives turn %d)\n", sh.Amount, sh.Payload, sh.To, sh.Arrival)
		}
	}

	if len(ws.Colony.Postmortems) > 0 {
		b.WriteString("Postmortems:\n")
		for _, pm := range ws.Colony.Postmortems {
			fmt.Fprintf(&b, "  - turn %d: %s (%s) — %s\n", pm.Turn, pm.Habitat, pm.Owner, pm.Cause)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// starfield draws a small noise-derived backdrop. Seeded from the game
// seed so the same campaign always shows the same sky.
func starfield(seed int64, width, height int) string {
	noise := opensimplex.New(seed)
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := noise.Eval2(float64(x)/6, float64(y)/3)
			switch {
			case v > 0.62:
				b.WriteByte('*')
			case v > 0.48:
				b.WriteByte('.')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func sortStrings(xs []string) {
	sort.Strings(xs)
}
