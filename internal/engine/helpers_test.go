package engine

import (
	"testing"

	"github.com/talgya/empires-beyond/internal/content"
	"github.com/talgya/empires-beyond/internal/telemetry"
)

// newTestWorld builds a fresh game against the embedded catalog with a
// capturing sink.
func newTestWorld(t *testing.T, seed int64) (*World, *telemetry.MemorySink) {
	t.Helper()
	sink := &telemetry.MemorySink{}
	return NewGame(content.Default(), seed, sink), sink
}

// firstFaction returns the alphabetically first faction, matching the
// deterministic iteration order the engine uses everywhere.
func firstFaction(w *World) *Faction {
	return w.State.Factions[w.State.FactionNames()[0]]
}

// checkInvariants asserts every after-turn invariant from the state model.
func checkInvariants(t *testing.T, w *World) {
	t.Helper()
	ws := w.State

	for _, name := range ws.FactionNames() {
		f := ws.Factions[name]
		for _, r := range AllResources() {
			if f.Resources[r] < 0 {
				t.Fatalf("%s: resource %s negative: %v", name, r, f.Resources[r])
			}
		}
		if m := f.Resources[ResMorale]; m < 0 || m > 100 {
			t.Fatalf("%s: morale out of range: %v", name, m)
		}
		if f.Unrest < 0 || f.Unrest > 100 {
			t.Fatalf("%s: unrest out of range: %v", name, f.Unrest)
		}
		if f.WarExhaust < 0 || f.WarExhaust > 100 {
			t.Fatalf("%s: war exhaustion out of range: %v", name, f.WarExhaust)
		}
		if f.Affinity.O < 0 || f.Affinity.O > 1 || f.Affinity.H < 0 || f.Affinity.H > 1 {
			t.Fatalf("%s: affinity out of range: %+v", name, f.Affinity)
		}
		if f.Rho < 0 {
			t.Fatalf("%s: resonance debt negative: %v", name, f.Rho)
		}
		if f.Population < 100 {
			t.Fatalf("%s: population below floor: %d", name, f.Population)
		}
	}

	if ws.Market.Inflation < 0 || ws.Market.Inflation > 0.50 {
		t.Fatalf("inflation out of range: %v", ws.Market.Inflation)
	}
	if len(ws.Wars) > MaxWars {
		t.Fatalf("too many simultaneous wars: %d", len(ws.Wars))
	}
	for _, tr := range ws.Treaties {
		if tr.TTL <= 0 {
			t.Fatalf("treaty with non-positive ttl in list: %+v", tr)
		}
	}
	for _, name := range ws.HabitatNames() {
		hab := ws.Colony.Habitats[name]
		if hab.Status != HabitatOK && hab.Status != HabitatCollapsed {
			t.Fatalf("habitat %s has unknown status %q", name, hab.Status)
		}
	}
}
