// Colony engine — off-world habitat life support. Locked behind the gate
// technology; once open it delivers shipments, degrades vitals, rolls for
// stochastic failures and detects terminal collapse.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/empires-beyond/internal/affinity"
	"github.com/talgya/empires-beyond/internal/entropy"
)

// FailureMode enumerates the categorical habitat failures.
type FailureMode string

const (
	FailPowerTrip     FailureMode = "power_trip"
	FailScrubber      FailureMode = "scrubber_failure"
	FailMicroLeak     FailureMode = "micro_leak"
	FailWasteOverflow FailureMode = "waste_overflow"
	FailRiot          FailureMode = "riot"
	FailHullBreach    FailureMode = "hull_breach"
)

// allFailureModes is the fixed pick order for the uniform mode draw.
var allFailureModes = []FailureMode{
	FailPowerTrip, FailScrubber, FailMicroLeak,
	FailWasteOverflow, FailRiot, FailHullBreach,
}

// checkColonyUnlock opens the space subsystem once any faction holds the
// gate technology. One-way: once unlocked it never relocks. Idempotent when
// no faction qualifies.
func (w *World) checkColonyUnlock() {
	if w.State.Colony.Unlocked {
		return
	}
	for _, name := range w.State.FactionNames() {
		if w.State.Factions[name].HasTech(w.Catalog.ColonyGateTech) {
			w.State.Colony.Unlocked = true
			w.State.Colony.UnlockedBy = name
			slog.Info("colony subsystem unlocked", "faction", name, "tech", w.Catalog.ColonyGateTech)
			w.Sink.Emit("colony_unlocked", map[string]any{"faction": name})
			return
		}
	}
}

// colonyTick runs the per-turn colony step and returns its log lines.
// While locked the whole step is a no-op.
func (w *World) colonyTick() []string {
	w.checkColonyUnlock()
	if !w.State.Colony.Unlocked {
		return nil
	}

	lines := w.deliverShipments()
	for _, name := range w.State.HabitatNames() {
		hab := w.State.Colony.Habitats[name]
		if hab.Status == HabitatCollapsed {
			continue
		}
		w.degrade(hab)
		lines = append(lines, w.rollFailure(hab)...)
		lines = append(lines, w.checkCollapse(hab)...)
	}
	return lines
}

// deliverShipments applies every shipment whose arrival turn has come and
// keeps the rest queued.
func (w *World) deliverShipments() []string {
	var lines []string
	pending := w.State.Colony.Shipments[:0]
	for _, sh := range w.State.Colony.Shipments {
		if sh.Arrival > w.State.Turn {
			pending = append(pending, sh)
			continue
		}
		hab, ok := w.State.Colony.Habitats[sh.To]
		if !ok || hab.Status == HabitatCollapsed {
			continue // Cargo lost with its destination.
		}
		switch sh.Payload {
		case PayloadWater:
			hab.Water += sh.Amount
		case PayloadFood:
			hab.Oxygen += 0.3 * sh.Amount
			hab.Morale += 2
		case PayloadParts:
			hab.Waste = max0(hab.Waste - 0.5*sh.Amount)
		case PayloadEnergyCells:
			hab.PowerGen += 0.2 * sh.Amount
		}
		lines = append(lines, fmt.Sprintf("Shipment of %s (%.0f) arrives at %s.", sh.Payload, sh.Amount, sh.To))
	}
	w.State.Colony.Shipments = pending
	return lines
}

// degrade applies the baseline per-turn life-support decay.
func (w *World) degrade(hab *Habitat) {
	hab.Oxygen -= 8
	hab.Water -= 6
	hab.Waste = clamp(hab.Waste+6, 0, 100)
	hab.Morale -= hab.Radiation / 200

	if hab.PowerGen < hab.PowerUse {
		hab.Morale -= 5
		hab.Waste = clamp(hab.Waste+5, 0, 100)
	}

	hab.Oxygen = clamp(hab.Oxygen, 0, 100)
	hab.Water = clamp(hab.Water, 0, 100)
	hab.Morale = clamp(hab.Morale, 0, 100)
}

// failureChance computes this turn's failure probability for a habitat.
// Fixed situational bonuses are added before the morale offset and the
// final clamp to [0, 0.60].
func (w *World) failureChance(hab *Habitat) float64 {
	owner := w.State.Factions[hab.Owner]
	p := 0.01 + hab.Radiation/1000 + 0.02*owner.Rho + 0.03*affinity.Tension(owner.Affinity)
	if hab.PowerGen < hab.PowerUse {
		p += 0.05
	}
	if hab.Oxygen < 10 {
		p += 0.10
	}
	if hab.Water < 10 {
		p += 0.08
	}
	p -= hab.Morale / 200
	return clamp(p, 0, 0.60)
}

// rollFailure draws once against the failure probability and, on failure,
// draws again for the mode and applies its fixed penalty.
func (w *World) rollFailure(hab *Habitat) []string {
	if w.RNG.Float() >= w.failureChance(hab) {
		return nil
	}

	mode := entropy.Pick(w.RNG, allFailureModes)
	switch mode {
	case FailPowerTrip:
		hab.PowerGen = max0(hab.PowerGen - 3)
		hab.Morale = clamp(hab.Morale-3, 0, 100)
		return []string{fmt.Sprintf("%s: a power trip plunges the decks into darkness.", hab.Name)}
	case FailScrubber:
		hab.Oxygen = clamp(hab.Oxygen-10, 0, 100)
		return []string{fmt.Sprintf("%s: a CO2 scrubber fails and the air turns thin.", hab.Name)}
	case FailMicroLeak:
		hab.Water = clamp(hab.Water-8, 0, 100)
		return []string{fmt.Sprintf("%s: a micro-leak bleeds precious water into vacuum.", hab.Name)}
	case FailWasteOverflow:
		hab.Waste = clamp(hab.Waste+15, 0, 100)
		return []string{fmt.Sprintf("%s: the reclamation system backs up; waste overflows.", hab.Name)}
	case FailRiot:
		hab.Morale = clamp(hab.Morale-12, 0, 100)
		return []string{fmt.Sprintf("%s: a riot breaks out on the hab decks.", hab.Name)}
	case FailHullBreach:
		hab.Oxygen = clamp(hab.Oxygen-12, 0, 100)
		hab.Water = clamp(hab.Water-6, 0, 100)
		hab.Morale = clamp(hab.Morale-8, 0, 100)
		return []string{fmt.Sprintf("%s: a hull breach! Emergency bulkheads slam shut.", hab.Name)}
	}
	return nil
}

// checkCollapse transitions a habitat to the terminal collapsed state when
// any vital is exhausted, recording the postmortem and notifying the sink.
func (w *World) checkCollapse(hab *Habitat) []string {
	cause := ""
	switch {
	case hab.Oxygen <= 0:
		cause = "oxygen depleted"
	case hab.Water <= 0:
		cause = "water depleted"
	case hab.Morale <= 0:
		cause = "morale collapse"
	case hab.Waste >= 100:
		cause = "waste saturation"
	default:
		return nil
	}

	hab.Status = HabitatCollapsed
	w.State.Colony.Postmortems = append(w.State.Colony.Postmortems, Postmortem{
		Turn:      w.State.Turn,
		Habitat:   hab.Name,
		Owner:     hab.Owner,
		Oxygen:    hab.Oxygen,
		Water:     hab.Water,
		Waste:     hab.Waste,
		Radiation: hab.Radiation,
		Morale:    hab.Morale,
		Cause:     cause,
		Note:      fmt.Sprintf("lost on turn %d", w.State.Turn),
	})
	slog.Info("habitat collapsed", "habitat", hab.Name, "owner", hab.Owner, "cause", cause)
	w.Sink.Emit("habitat_collapsed", map[string]any{
		"habitat": hab.Name, "owner": hab.Owner, "cause": cause,
	})
	return []string{fmt.Sprintf("%s has COLLAPSED (%s).", hab.Name, cause)}
}

// buildHabitat constructs a habitat from its catalog design if the faction
// can cover all four costs at once. Silent no-op otherwise.
func (w *World) buildHabitat(faction, design string) {
	spec, ok := w.Catalog.Habitats[design]
	if !ok {
		return
	}
	if _, exists := w.State.Colony.Habitats[design]; exists {
		return
	}
	f := w.State.Factions[faction]
	cost := map[Resource]float64{
		ResCredits:   spec.Credits,
		ResInfluence: spec.Influence,
		ResMetal:     spec.Metal,
		ResParts:     spec.Parts,
	}
	if !canPay(f, cost) {
		return
	}
	pay(f, cost)

	w.State.Colony.Habitats[design] = &Habitat{
		Name:      spec.Name,
		Owner:     faction,
		MassCap:   spec.MassCap,
		PowerGen:  spec.PowerGen,
		PowerUse:  spec.PowerUse,
		Oxygen:    100,
		Water:     100,
		Waste:     0,
		Radiation: spec.Radiation,
		Morale:    70,
		Status:    HabitatOK,
	}
	slog.Info("habitat built", "habitat", design, "owner", faction)
}

// shipCargo enqueues a shipment to an owned habitat, deducting the
// amount-scaled cost. Silent no-op when unaffordable or invalid.
func (w *World) shipCargo(faction, habitat string, payload PayloadKind, amount float64) {
	hab, ok := w.State.Colony.Habitats[habitat]
	if !ok || hab.Status == HabitatCollapsed || hab.Owner != faction {
		return
	}
	spec, ok := w.Catalog.Habitats[habitat]
	if !ok {
		return
	}
	f := w.State.Factions[faction]
	cost := map[Resource]float64{
		ResCredits: 40 + 2*amount,
		ResMetal:   5 + 0.2*amount,
		ResParts:   2 + 0.1*amount,
	}
	if !canPay(f, cost) {
		return
	}
	pay(f, cost)

	w.State.Colony.Shipments = append(w.State.Colony.Shipments, Shipment{
		To:      habitat,
		Payload: payload,
		Amount:  amount,
		Arrival: w.State.Turn + spec.TravelTurns,
	})
}
