package engine

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestAvailableActionsDeterministicOrder(t *testing.T) {
	w, _ := newTestWorld(t, 1)

	first := w.AvailableActions()
	for i := 0; i < 5; i++ {
		again := w.AvailableActions()
		if len(again) != len(first) {
			t.Fatalf("action count changed: %d != %d", len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("action %d changed between enumerations: %+v != %+v", j, again[j], first[j])
			}
		}
	}
}

func TestAvailableActionsGatesPrereqs(t *testing.T) {
	w, _ := newTestWorld(t, 1)

	for _, a := range w.AvailableActions() {
		if a.Kind == ActResearch && a.Tech == "orbital_habitats" {
			t.Fatal("orbital_habitats offered without fusion_power")
		}
		if a.Kind == ActPolicy && a.Policy == "green_grid" {
			t.Fatal("green_grid offered without fusion_power")
		}
	}

	f := firstFaction(w)
	f.Tech["fusion_power"] = 1
	foundTech, foundPolicy := false, false
	for _, a := range w.AvailableActions() {
		if a.Kind == ActResearch && a.Tech == "orbital_habitats" && a.Faction == f.Name {
			foundTech = true
		}
		if a.Kind == ActPolicy && a.Policy == "green_grid" && a.Faction == f.Name {
			foundPolicy = true
		}
	}
	if !foundTech || !foundPolicy {
		t.Errorf("prereq satisfied but gated entries missing: tech=%v policy=%v", foundTech, foundPolicy)
	}
}

func TestApplyUnknownKindIsNoOp(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	before, err := json.Marshal(w.State)
	if err != nil {
		t.Fatal(err)
	}

	w.Apply(Action{Kind: "summon_dragon", Faction: firstFaction(w).Name})

	after, err := json.Marshal(w.State)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("unknown action kind mutated state")
	}
}

func TestResearchUnaffordableIsSilent(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	f := firstFaction(w)
	f.Resources[ResCredits] = 0

	w.Apply(Action{Kind: ActResearch, Faction: f.Name, Tech: "deep_mining"})

	if f.HasTech("deep_mining") {
		t.Error("research completed without funds")
	}
}

func TestResearchPaysAndCompletes(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	f := firstFaction(w) // 300 credits, 40 influence

	w.Apply(Action{Kind: ActResearch, Faction: f.Name, Tech: "deep_mining"}) // 100cr 8inf

	if !f.HasTech("deep_mining") {
		t.Fatal("research did not complete")
	}
	if f.Resources[ResCredits] != 200 || f.Resources[ResInfluence] != 32 {
		t.Errorf("research cost wrong: credits=%v influence=%v",
			f.Resources[ResCredits], f.Resources[ResInfluence])
	}
}

func TestResearchGateUnlocksColonySameTurn(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	f := firstFaction(w)
	f.Tech["fusion_power"] = 1
	f.Resources[ResCredits] = 500
	f.Resources[ResInfluence] = 100

	w.Apply(Action{Kind: ActResearch, Faction: f.Name, Tech: "orbital_habitats"})

	if !w.State.Colony.Unlocked {
		t.Error("gate research should unlock the colony immediately")
	}
}

func TestMilitaryDraftConversion(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	f := firstFaction(w)
	f.Resources[ResCredits] = 330 // 30 policy cost leaves 300; 200 of it drafted
	f.Resources[ResInfluence] = 20
	f.Resources[ResUnits] = 30
	f.Resources[ResMorale] = 60
	f.Unrest = 10

	w.Apply(Action{Kind: ActPolicy, Faction: f.Name, Policy: "military_draft"})

	if !f.Policies["military_draft"] {
		t.Fatal("draft not enacted")
	}
	if f.Resources[ResCredits] != 100 {
		t.Errorf("credits = %v, want 100", f.Resources[ResCredits])
	}
	if f.Resources[ResUnits] != 50 {
		t.Errorf("units = %v, want 50", f.Resources[ResUnits])
	}
	if f.Resources[ResMorale] != 52 || f.Unrest != 16 {
		t.Errorf("social cost wrong: morale=%v unrest=%v", f.Resources[ResMorale], f.Unrest)
	}
	if f.Rho != 0.25 {
		t.Errorf("rho = %v, want 0.25", f.Rho)
	}
}

func TestBorderPoliciesMutuallyExclusive(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	f := firstFaction(w)
	f.Resources[ResCredits] = 500
	f.Resources[ResInfluence] = 100

	w.Apply(Action{Kind: ActPolicy, Faction: f.Name, Policy: "open_borders"})
	w.Apply(Action{Kind: ActPolicy, Faction: f.Name, Policy: "closed_borders"})

	if f.Policies["open_borders"] {
		t.Error("open_borders still active after closing")
	}
	if !f.Policies["closed_borders"] {
		t.Error("closed_borders not active")
	}

	// And the reverse: reopening deactivates closed_borders.
	w.Apply(Action{Kind: ActPolicy, Faction: f.Name, Policy: "open_borders"})
	if f.Policies["closed_borders"] {
		t.Error("closed_borders still active after reopening")
	}
	if !f.Policies["open_borders"] {
		t.Error("open_borders not active after reopening")
	}
}

func TestSignTreatyChargesBothParties(t *testing.T) {
	w, sink := newTestWorld(t, 1)
	names := w.State.FactionNames()
	fa := w.State.Factions[names[0]]
	fb := w.State.Factions[names[1]]
	ia, ib := fa.Resources[ResInfluence], fb.Resources[ResInfluence]

	w.Apply(Action{Kind: ActTreaty, Treaty: TreatyAlliance, A: names[0], B: names[1]})

	if len(w.State.Treaties) != 1 {
		t.Fatal("treaty not signed")
	}
	if w.State.Treaties[0].TTL != 15 {
		t.Errorf("alliance ttl = %d, want 15", w.State.Treaties[0].TTL)
	}
	if fa.Resources[ResInfluence] != ia-5 || fb.Resources[ResInfluence] != ib-5 {
		t.Errorf("influence not charged both sides: %v %v", fa.Resources[ResInfluence], fb.Resources[ResInfluence])
	}
	notes := sink.Drain()
	if len(notes) != 1 || notes[0].Event != "treaty_signed" {
		t.Errorf("want treaty_signed notification, got %+v", notes)
	}
}

func TestSignTreatyRejectedWhenOneSideBroke(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	names := w.State.FactionNames()
	fa := w.State.Factions[names[0]]
	fb := w.State.Factions[names[1]]
	fb.Resources[ResInfluence] = 2
	ia := fa.Resources[ResInfluence]

	w.Apply(Action{Kind: ActTreaty, Treaty: TreatyTradePact, A: names[0], B: names[1]})

	if len(w.State.Treaties) != 0 {
		t.Fatal("treaty signed with an insolvent party")
	}
	if fa.Resources[ResInfluence] != ia {
		t.Error("solvent side charged for a failed signing")
	}
}

func TestTradeSwapsFixedLots(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	names := w.State.FactionNames()
	fa := w.State.Factions[names[0]]
	fb := w.State.Factions[names[1]]
	ma, ca := fa.Resources[ResMetal], fa.Resources[ResCredits]
	mb, cb := fb.Resources[ResMetal], fb.Resources[ResCredits]

	w.Apply(Action{Kind: ActTrade, A: names[0], B: names[1]})

	if fa.Resources[ResMetal] != ma-10 || fb.Resources[ResMetal] != mb+10 {
		t.Errorf("metal not exchanged: %v %v", fa.Resources[ResMetal], fb.Resources[ResMetal])
	}
	if fa.Resources[ResCredits] != ca+30 || fb.Resources[ResCredits] != cb-30 {
		t.Errorf("credits not exchanged: %v %v", fa.Resources[ResCredits], fb.Resources[ResCredits])
	}
}

func TestTradeRejectedWithoutStock(t *testing.T) {
	w, _ := newTestWorld(t, 1)
	names := w.State.FactionNames()
	fa := w.State.Factions[names[0]]
	fa.Resources[ResMetal] = 3
	cb := w.State.Factions[names[1]].Resources[ResCredits]

	w.Apply(Action{Kind: ActTrade, A: names[0], B: names[1]})

	if fa.Resources[ResMetal] != 3 || w.State.Factions[names[1]].Resources[ResCredits] != cb {
		t.Error("trade executed without the metal to give")
	}
}

func TestDescribeAndInvolves(t *testing.T) {
	a := Action{Kind: ActTreaty, Treaty: TreatyTradePact, A: "X", B: "Y"}
	if got := a.Involves(); len(got) != 2 || got[0] != "X" || got[1] != "Y" {
		t.Errorf("Involves = %v", got)
	}
	if a.Describe() == "" {
		t.Error("Describe returned empty string")
	}

	solo := Action{Kind: ActResearch, Faction: "X", Tech: "deep_mining"}
	if got := solo.Involves(); len(got) != 1 || got[0] != "X" {
		t.Errorf("Involves = %v", got)
	}
}
