// Event engine — weighted random world events. One gate draw decides
// whether anything happens this turn, one selection draw picks the event,
// and each event consumes its own target draws in a fixed order.
package engine

import (
	"fmt"

	"github.com/talgya/empires-beyond/internal/entropy"
)

// EventKind names one catalog entry.
type EventKind string

const (
	EventSolarFlare     EventKind = "solar_flare"
	EventSiliconGlut    EventKind = "silicon_glut"
	EventLaborStrike    EventKind = "labor_strike"
	EventBorderIncident EventKind = "border_incident"
	EventSpyScandal     EventKind = "spy_scandal"
	EventPirateRaiders  EventKind = "pirate_raiders"
	EventReactorBreak   EventKind = "reactor_breakthrough"
	EventFoodBlight     EventKind = "food_blight"
	EventPeaceSummit    EventKind = "peace_summit"
	EventInflationPanic EventKind = "inflation_panic"
	EventCoupWhispers   EventKind = "coup_whispers"
)

// eventFireChance gates whether any event happens on a given turn.
const eventFireChance = 0.70

// eventOrder is the fixed enumeration order for weighted selection. Ties on
// the cumulative boundary resolve toward earlier entries.
var eventOrder = []EventKind{
	EventSolarFlare, EventSiliconGlut, EventLaborStrike, EventBorderIncident,
	EventSpyScandal, EventPirateRaiders, EventReactorBreak, EventFoodBlight,
	EventPeaceSummit, EventInflationPanic, EventCoupWhispers,
}

// eventWeight returns the selection weight for an event. Most are constants;
// the inflation panic grows with current inflation and is recomputed on
// every selection.
func (w *World) eventWeight(kind EventKind) float64 {
	switch kind {
	case EventSolarFlare:
		return 6
	case EventSiliconGlut:
		return 5
	case EventLaborStrike:
		return 6
	case EventBorderIncident:
		return 4
	case EventSpyScandal:
		return 5
	case EventPirateRaiders:
		return 5
	case EventReactorBreak:
		return 3
	case EventFoodBlight:
		return 5
	case EventPeaceSummit:
		return 3
	case EventInflationPanic:
		return 2 + 4*w.State.Market.Inflation
	case EventCoupWhispers:
		return 4
	}
	return 0
}

// PickEvent draws one event from the weighted catalog. The accumulator scan
// guarantees a result even under floating-point edge cases by defaulting to
// the first entry.
func (w *World) PickEvent() EventKind {
	total := 0.0
	for _, kind := range eventOrder {
		total += w.eventWeight(kind)
	}
	draw := w.RNG.Float() * total

	cum := 0.0
	for _, kind := range eventOrder {
		cum += w.eventWeight(kind)
		if cum >= draw {
			return kind
		}
	}
	return eventOrder[0]
}

// eventTick runs the per-turn event phase and returns its log lines.
func (w *World) eventTick() []string {
	if w.RNG.Float() >= eventFireChance {
		return []string{"A quiet month passes."}
	}
	return w.applyEvent(w.PickEvent())
}

// randomFaction draws one faction uniformly over sorted names.
func (w *World) randomFaction() *Faction {
	name := entropy.Pick(w.RNG, w.State.FactionNames())
	return w.State.Factions[name]
}

// randomPair draws an ordered faction pair. On collision the first slot
// falls back to the first roster name in sorted order; if the pair still
// collides the second name is empty and the event should no-op.
func (w *World) randomPair() (string, string) {
	names := w.State.FactionNames()
	a := entropy.Pick(w.RNG, names)
	b := entropy.Pick(w.RNG, names)
	if a == b {
		a = names[0]
	}
	if a == b {
		return a, ""
	}
	return a, b
}

// applyEvent mutates state for the chosen event and returns log lines.
func (w *World) applyEvent(kind EventKind) []string {
	switch kind {
	case EventSolarFlare:
		f := w.randomFaction()
		f.Resources[ResEnergy] = max0(f.Resources[ResEnergy] - 30)
		f.Resources[ResMorale] = clamp(f.Resources[ResMorale]-5, 0, 100)
		return []string{fmt.Sprintf("A solar flare scorches %s: energy grids fail and spirits dip.", f.Name)}

	case EventSiliconGlut:
		f := w.randomFaction()
		f.Resources[ResSilicon] += 40
		f.Resources[ResCredits] += 20
		return []string{fmt.Sprintf("A silicon glut floods %s's fabs with cheap wafers.", f.Name)}

	case EventLaborStrike:
		f := w.randomFaction()
		f.Unrest = clamp(f.Unrest+10, 0, 100)
		f.Resources[ResCredits] = max0(f.Resources[ResCredits] - 25)
		return []string{fmt.Sprintf("A labor strike paralyzes %s's industry.", f.Name)}

	case EventBorderIncident:
		a, b := w.randomPair()
		if b == "" {
			return []string{"A border incident fizzles out before anyone notices."}
		}
		if w.State.AtWar(a) || w.State.AtWar(b) {
			return []string{fmt.Sprintf("A border incident between %s and %s is lost in the noise of ongoing war.", a, b)}
		}
		if !w.startWar(a, b) {
			return []string{fmt.Sprintf("A border incident between %s and %s stops short of open war.", a, b)}
		}
		return []string{fmt.Sprintf("A border incident ignites war between %s and %s!", a, b)}

	case EventSpyScandal:
		f := w.randomFaction()
		f.Rho += 0.2
		f.Intel += 5
		return []string{fmt.Sprintf("A spy scandal rocks %s; trust frays while the files pile up.", f.Name)}

	case EventPirateRaiders:
		f := w.randomFaction()
		f.Resources[ResMetal] = max0(f.Resources[ResMetal] - 20)
		f.Resources[ResCredits] = max0(f.Resources[ResCredits] - 30)
		return []string{fmt.Sprintf("Pirate raiders strip %s's convoys of metal and coin.", f.Name)}

	case EventReactorBreak:
		f := w.randomFaction()
		f.Tech["fusion_power"] = 1
		f.Resources[ResEnergy] += 50
		return []string{fmt.Sprintf("A reactor breakthrough hands %s working fusion power overnight.", f.Name)}

	case EventFoodBlight:
		f := w.randomFaction()
		f.Resources[ResFood] = max0(f.Resources[ResFood] - 30)
		f.Unrest = clamp(f.Unrest+6, 0, 100)
		return []string{fmt.Sprintf("A food blight devastates %s's harvests.", f.Name)}

	case EventPeaceSummit:
		if len(w.State.Wars) == 0 {
			return []string{"A peace summit convenes, but there is no war to end."}
		}
		war := w.State.Wars[0]
		w.State.Wars = w.State.Wars[1:]
		w.State.Treaties = append(w.State.Treaties, &Treaty{
			Kind: TreatyNonAggression, A: war.A, B: war.B, TTL: 12,
		})
		w.Sink.Emit("peace", map[string]any{"winner": "", "loser": "", "summit": true})
		return []string{fmt.Sprintf("A peace summit ends the war between %s and %s with a non-aggression pact.", war.A, war.B)}

	case EventInflationPanic:
		w.State.Market.Inflation = clamp(w.State.Market.Inflation+0.03, 0, 0.50)
		return []string{"Markets panic over inflation; prices lurch upward."}

	case EventCoupWhispers:
		f := w.randomFaction()
		f.Unrest = clamp(f.Unrest+5+5*clamp(f.Rho, 0, 3), 0, 100)
		return []string{fmt.Sprintf("Coup whispers spread through %s's officer corps.", f.Name)}
	}

	return []string{"Nothing of note happens."}
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
