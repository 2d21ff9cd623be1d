// Action system — enumerates the legal actions for the current state,
// validates affordability, and applies one action's effects. Invalid or
// unaffordable actions are silent no-ops: the world is returned unchanged
// and nothing is logged.
package engine

import "fmt"

// ActionKind enumerates the action variants.
type ActionKind string

const (
	ActPolicy   ActionKind = "policy"
	ActResearch ActionKind = "research"
	ActTreaty   ActionKind = "treaty"
	ActWar      ActionKind = "war"
	ActTrade    ActionKind = "trade"
	ActBuildHab ActionKind = "build_habitat"
	ActShip     ActionKind = "ship_cargo"
)

// Action is one controller-selectable move. Only the fields relevant to its
// kind are set.
type Action struct {
	Kind    ActionKind  `json:"kind"`
	Faction string      `json:"faction,omitempty"`
	Policy  string      `json:"policy,omitempty"`
	Tech    string      `json:"tech,omitempty"`
	Treaty  TreatyKind  `json:"treaty,omitempty"`
	A       string      `json:"a,omitempty"`
	B       string      `json:"b,omitempty"`
	Habitat string      `json:"habitat,omitempty"`
	Payload PayloadKind `json:"payload,omitempty"`
	Amount  float64     `json:"amount,omitempty"`
}

// Fixed trade shape: the proposer gives metal for the partner's credits.
const (
	tradeGiveMetal   = 10.0
	tradeTakeCredits = 30.0
)

// shipLotSize is the fixed amount used when enumerating ship actions.
const shipLotSize = 20.0

// Describe renders an action for action menus.
func (a Action) Describe() string {
	switch a.Kind {
	case ActPolicy:
		return fmt.Sprintf("Enact policy '%s' on %s", a.Policy, a.Faction)
	case ActResearch:
		return fmt.Sprintf("Research '%s' for %s", a.Tech, a.Faction)
	case ActTreaty:
		return fmt.Sprintf("Propose %s between %s and %s", a.Treaty, a.A, a.B)
	case ActWar:
		return fmt.Sprintf("Declare war: %s vs %s", a.A, a.B)
	case ActTrade:
		return fmt.Sprintf("Trade: %s gives %.0f metal to %s for %.0f credits",
			a.A, tradeGiveMetal, a.B, tradeTakeCredits)
	case ActBuildHab:
		return fmt.Sprintf("Build habitat '%s' for %s", a.Habitat, a.Faction)
	case ActShip:
		return fmt.Sprintf("Ship %.0f %s from %s to %s", a.Amount, a.Payload, a.Faction, a.Habitat)
	}
	return fmt.Sprintf("%s: %+v", a.Kind, a)
}

// Involves returns the faction names an action touches, for menu grouping.
func (a Action) Involves() []string {
	if a.Faction != "" {
		return []string{a.Faction}
	}
	if a.A != "" && a.B != "" {
		return []string{a.A, a.B}
	}
	return nil
}

// AvailableActions enumerates every currently legal action in a fixed,
// deterministic order: policies, research, treaties, wars, trades, then
// colony actions. Affordability is not pre-filtered; applying an
// unaffordable entry is simply a no-op.
func (w *World) AvailableActions() []Action {
	var out []Action
	names := w.State.FactionNames()

	for _, name := range names {
		f := w.State.Factions[name]
		for _, pol := range w.Catalog.PolicyNames() {
			spec := w.Catalog.Policies[pol]
			if spec.RequiresTech != "" && !f.HasTech(spec.RequiresTech) {
				continue
			}
			out = append(out, Action{Kind: ActPolicy, Faction: name, Policy: pol})
		}
	}

	for _, name := range names {
		f := w.State.Factions[name]
		for _, tech := range w.Catalog.TechNames() {
			spec := w.Catalog.Techs[tech]
			if f.HasTech(tech) {
				continue
			}
			if spec.Prereq != "" && !f.HasTech(spec.Prereq) {
				continue
			}
			out = append(out, Action{Kind: ActResearch, Faction: name, Tech: tech})
		}
	}

	for i, a := range names {
		for _, b := range names[i+1:] {
			for _, kind := range AllTreatyKinds() {
				out = append(out, Action{Kind: ActTreaty, Treaty: kind, A: a, B: b})
			}
		}
	}

	for i, a := range names {
		for _, b := range names[i+1:] {
			out = append(out, Action{Kind: ActWar, A: a, B: b})
		}
	}

	for i, a := range names {
		for _, b := range names[i+1:] {
			out = append(out, Action{Kind: ActTrade, A: a, B: b})
		}
	}

	if w.State.Colony.Unlocked {
		for _, name := range names {
			for _, design := range w.Catalog.HabitatNames() {
				if _, built := w.State.Colony.Habitats[design]; built {
					continue
				}
				out = append(out, Action{Kind: ActBuildHab, Faction: name, Habitat: design})
			}
		}
		for _, habName := range w.State.HabitatNames() {
			hab := w.State.Colony.Habitats[habName]
			if hab.Status == HabitatCollapsed {
				continue
			}
			for _, payload := range AllPayloadKinds() {
				out = append(out, Action{
					Kind: ActShip, Faction: hab.Owner, Habitat: habName,
					Payload: payload, Amount: shipLotSize,
				})
			}
		}
	}

	return out
}

// Apply executes one action against the world. Unknown kinds and failed
// validations leave the state untouched; actions referencing factions not
// present in the state are out of contract.
func (w *World) Apply(a Action) {
	switch a.Kind {
	case ActPolicy:
		w.enactPolicy(a.Faction, a.Policy)
	case ActResearch:
		w.research(a.Faction, a.Tech)
	case ActTreaty:
		w.signTreaty(a.Treaty, a.A, a.B)
	case ActWar:
		w.startWar(a.A, a.B)
	case ActTrade:
		w.trade(a.A, a.B)
	case ActBuildHab:
		if w.State.Colony.Unlocked {
			w.buildHabitat(a.Faction, a.Habitat)
		}
	case ActShip:
		if w.State.Colony.Unlocked {
			w.shipCargo(a.Faction, a.Habitat, a.Payload, a.Amount)
		}
	default:
		// Malformed action kind: a logic error in the producer, not a
		// runtime fault. State stays unchanged.
	}
}

// canPay reports whether the faction covers every listed cost at once.
func canPay(f *Faction, cost map[Resource]float64) bool {
	for r, amt := range cost {
		if f.Resources[r] < amt {
			return false
		}
	}
	return true
}

// pay deducts a validated cost.
func pay(f *Faction, cost map[Resource]float64) {
	for r, amt := range cost {
		f.Resources[r] -= amt
	}
}

// enactPolicy activates a policy if its catalog cost is payable, applying
// the special-cased side effects of the draft and border policies.
func (w *World) enactPolicy(faction, policy string) {
	spec, ok := w.Catalog.Policies[policy]
	if !ok {
		return
	}
	f := w.State.Factions[faction]
	if spec.RequiresTech != "" && !f.HasTech(spec.RequiresTech) {
		return
	}
	cost := map[Resource]float64{ResCredits: spec.Credits, ResInfluence: spec.Influence}
	if !canPay(f, cost) {
		return
	}
	pay(f, cost)
	f.Policies[policy] = true

	switch policy {
	case "military_draft":
		// Emergency conscription: credits become units at 10:1, with the
		// social cost that implies.
		spend := f.Resources[ResCredits]
		if spend > 200 {
			spend = 200
		}
		f.Resources[ResCredits] -= spend
		f.Resources[ResUnits] += spend / 10
		f.Resources[ResMorale] = clamp(f.Resources[ResMorale]-8, 0, 100)
		f.Unrest = clamp(f.Unrest+6, 0, 100)
		f.Rho += 0.25
	case "open_borders":
		f.Policies["closed_borders"] = false
	case "closed_borders":
		f.Policies["open_borders"] = false
	}
}

// research completes a technology if affordable and its prerequisite holds.
func (w *World) research(faction, tech string) {
	spec, ok := w.Catalog.Techs[tech]
	if !ok {
		return
	}
	f := w.State.Factions[faction]
	if f.HasTech(tech) {
		return
	}
	if spec.Prereq != "" && !f.HasTech(spec.Prereq) {
		return
	}
	cost := map[Resource]float64{ResCredits: spec.Credits, ResInfluence: spec.Influence}
	if !canPay(f, cost) {
		return
	}
	pay(f, cost)
	f.Tech[tech] = 1

	// Colony actions become available the same turn the gate completes.
	w.checkColonyUnlock()
}

// signTreaty creates a treaty when both parties can spare the influence.
const treatyInfluenceCost = 5.0

func (w *World) signTreaty(kind TreatyKind, a, b string) {
	fa := w.State.Factions[a]
	fb := w.State.Factions[b]
	cost := map[Resource]float64{ResInfluence: treatyInfluenceCost}
	if !canPay(fa, cost) || !canPay(fb, cost) {
		return
	}
	pay(fa, cost)
	pay(fb, cost)
	w.State.Treaties = append(w.State.Treaties, &Treaty{
		Kind: kind, A: a, B: b, TTL: TreatyTTL(kind),
	})
	w.Sink.Emit("treaty_signed", map[string]any{"kind": string(kind), "a": a, "b": b})
}

// trade executes the fixed-shape exchange when both sides can cover it.
func (w *World) trade(a, b string) {
	fa := w.State.Factions[a]
	fb := w.State.Factions[b]
	if fa.Resources[ResMetal] < tradeGiveMetal || fb.Resources[ResCredits] < tradeTakeCredits {
		return
	}
	fa.Resources[ResMetal] -= tradeGiveMetal
	fb.Resources[ResMetal] += tradeGiveMetal
	fb.Resources[ResCredits] -= tradeTakeCredits
	fa.Resources[ResCredits] += tradeTakeCredits
}
