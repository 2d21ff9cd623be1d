// World state — factions, wars, treaties, market and colony containers.
// Everything here is plain structured data: saving is identity
// serialization and loading is identity deserialization.
package engine

import (
	"sort"

	"github.com/talgya/empires-beyond/internal/affinity"
	"github.com/talgya/empires-beyond/internal/content"
	"github.com/talgya/empires-beyond/internal/entropy"
	"github.com/talgya/empires-beyond/internal/telemetry"
)

// Resource identifies one of the fixed faction stock quantities.
type Resource string

const (
	ResFood      Resource = "food"
	ResWater     Resource = "water"
	ResEnergy    Resource = "energy"
	ResMetal     Resource = "metal"
	ResSilicon   Resource = "silicon"
	ResCredits   Resource = "credits"
	ResInfluence Resource = "influence"
	ResMorale    Resource = "morale"
	ResUnits     Resource = "units"
	ResParts     Resource = "parts"
)

// AllResources lists every resource in fixed enumeration order.
func AllResources() []Resource {
	return []Resource{
		ResFood, ResWater, ResEnergy, ResMetal, ResSilicon,
		ResCredits, ResInfluence, ResMorale, ResUnits, ResParts,
	}
}

// Faction is one playable power. Created at game start, mutated by every
// subsystem every turn, never destroyed.
type Faction struct {
	Name       string               `json:"name"`
	Traits     []string             `json:"traits"`
	Population int                  `json:"population"`
	Resources  map[Resource]float64 `json:"resources"`
	Production map[Resource]float64 `json:"production"`
	Policies   map[string]bool      `json:"policies"`
	Tech       map[string]int       `json:"tech"` // 0 = unresearched, 1 = researched
	Unrest     float64              `json:"unrest"`
	WarExhaust float64              `json:"war_exhaust"`
	Intel      float64              `json:"intel"`

	// Hidden state: never rendered unless the reveal flag is set.
	Affinity affinity.Pair `json:"affinity"`
	Rho      float64       `json:"rho"` // Resonance debt, >= 0
}

// HasTech reports whether the faction completed the named technology.
func (f *Faction) HasTech(name string) bool {
	return f.Tech[name] == 1
}

// War is one active conflict. Removed from the list the turn either side
// drops below 5 units or exceeds 95 war exhaustion.
type War struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Months  int     `json:"months"`
	ALosses float64 `json:"a_losses"`
	BLosses float64 `json:"b_losses"`
}

// TreatyKind enumerates the treaty variants.
type TreatyKind string

const (
	TreatyTradePact        TreatyKind = "trade_pact"
	TreatyNonAggression    TreatyKind = "non_aggression"
	TreatyResearchExchange TreatyKind = "research_exchange"
	TreatyAlliance         TreatyKind = "alliance"
)

// AllTreatyKinds lists treaty kinds in fixed enumeration order.
func AllTreatyKinds() []TreatyKind {
	return []TreatyKind{TreatyTradePact, TreatyNonAggression, TreatyResearchExchange, TreatyAlliance}
}

// Treaty is one active pact. TTL is decremented once per turn; the treaty is
// dropped when it reaches zero, so every listed treaty has TTL > 0.
type Treaty struct {
	Kind TreatyKind `json:"kind"`
	A    string     `json:"a"`
	B    string     `json:"b"`
	TTL  int        `json:"ttl"`
}

// Involves reports whether the treaty binds the given faction.
func (t *Treaty) Involves(name string) bool {
	return t.A == name || t.B == name
}

// Between reports whether the treaty binds the given unordered pair.
func (t *Treaty) Between(a, b string) bool {
	return (t.A == a && t.B == b) || (t.A == b && t.B == a)
}

// Market is the macroeconomic state shared by all factions.
type Market struct {
	Inflation    float64 `json:"inflation"` // Clamped to [0, 0.50]
	CreditGrowth float64 `json:"credit_supply_growth"`
	MetalBacking float64 `json:"metal_backing"`
}

// HabitatStatus is the habitat lifecycle state. Collapse is terminal.
type HabitatStatus string

const (
	HabitatOK        HabitatStatus = "ok"
	HabitatCollapsed HabitatStatus = "collapsed"
)

// Habitat is one off-world station. Mutated every turn until collapsed,
// after which it is frozen and skipped by all processing.
type Habitat struct {
	Name      string        `json:"name"`
	Owner     string        `json:"owner"`
	MassCap   float64       `json:"mass_cap"`
	MassUsed  float64       `json:"mass_used"`
	PowerGen  float64       `json:"power_gen"`
	PowerUse  float64       `json:"power_use"`
	Oxygen    float64       `json:"oxygen"`
	Water     float64       `json:"water"`
	Waste     float64       `json:"waste"`
	Radiation float64       `json:"radiation"`
	Morale    float64       `json:"morale"`
	Status    HabitatStatus `json:"status"`
}

// PayloadKind enumerates shipment cargo types.
type PayloadKind string

const (
	PayloadWater       PayloadKind = "water"
	PayloadFood        PayloadKind = "food"
	PayloadParts       PayloadKind = "parts"
	PayloadEnergyCells PayloadKind = "energy_cells"
)

// AllPayloadKinds lists payload kinds in fixed enumeration order.
func AllPayloadKinds() []PayloadKind {
	return []PayloadKind{PayloadWater, PayloadFood, PayloadParts, PayloadEnergyCells}
}

// Shipment is cargo in transit to a habitat. Applied and removed once the
// turn counter reaches its arrival turn.
type Shipment struct {
	To      string      `json:"to"`
	Payload PayloadKind `json:"payload"`
	Amount  float64     `json:"amount"`
	Arrival int         `json:"arrival"`
}

// Postmortem is the immutable record of a habitat collapse.
type Postmortem struct {
	Turn      int     `json:"turn"`
	Habitat   string  `json:"habitat"`
	Owner     string  `json:"owner"`
	Oxygen    float64 `json:"oxygen"`
	Water     float64 `json:"water"`
	Waste     float64 `json:"waste"`
	Radiation float64 `json:"radiation"`
	Morale    float64 `json:"morale"`
	Cause     string  `json:"cause"`
	Note      string  `json:"note"`
}

// ColonyState is the space subsystem container. Locked until any faction
// researches the gate technology; unlocking is one-way.
type ColonyState struct {
	Unlocked    bool                `json:"unlocked"`
	UnlockedBy  string              `json:"unlocked_by"`
	Habitats    map[string]*Habitat `json:"habitats"`
	Shipments   []Shipment          `json:"shipments"`
	Postmortems []Postmortem        `json:"postmortems"`
}

// WorldState is the single authoritative game state for one session.
type WorldState struct {
	Turn     int                 `json:"turn"`
	Seed     int64               `json:"seed"`
	Factions map[string]*Faction `json:"factions"`
	Wars     []*War              `json:"wars"`
	Treaties []*Treaty           `json:"treaties"`
	Market   Market              `json:"market"`
	Colony   ColonyState         `json:"colony"`
	Debug    map[string]bool     `json:"debug"`
}

// FactionNames returns faction names in sorted order. Every subsystem
// iterates factions through this to keep the pipeline deterministic.
func (ws *WorldState) FactionNames() []string {
	names := make([]string, 0, len(ws.Factions))
	for n := range ws.Factions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HabitatNames returns habitat names in sorted order.
func (ws *WorldState) HabitatNames() []string {
	names := make([]string, 0, len(ws.Colony.Habitats))
	for n := range ws.Colony.Habitats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AtWar reports whether the faction participates in any active war.
func (ws *WorldState) AtWar(name string) bool {
	for _, w := range ws.Wars {
		if w.A == name || w.B == name {
			return true
		}
	}
	return false
}

// MaxWars is the global cap on simultaneous active wars.
const MaxWars = 3

// World binds the shared state to its collaborators: the content catalog,
// the seeded random stream and the notification sink.
type World struct {
	State   *WorldState
	Catalog *content.Catalog
	RNG     *entropy.Stream
	Sink    telemetry.Sink
}

// NewGame builds a fresh world from the roster, seeded at seed.
func NewGame(cat *content.Catalog, seed int64, sink telemetry.Sink) *World {
	ws := &WorldState{
		Turn:     0,
		Seed:     seed,
		Factions: make(map[string]*Faction, len(cat.Roster)),
		Market:   Market{Inflation: 0.02, CreditGrowth: 0.8, MetalBacking: 0.6},
		Colony: ColonyState{
			Habitats: make(map[string]*Habitat),
		},
		Debug: map[string]bool{},
	}

	for _, seedFaction := range cat.Roster {
		f := &Faction{
			Name:       seedFaction.Name,
			Traits:     append([]string(nil), seedFaction.Traits...),
			Population: seedFaction.Population,
			Resources:  make(map[Resource]float64, len(AllResources())),
			Production: make(map[Resource]float64, len(AllResources())),
			Policies:   make(map[string]bool),
			Tech:       make(map[string]int),
			Affinity:   affinity.Pair{O: seedFaction.AffinityO, H: seedFaction.AffinityH},
		}
		for _, r := range AllResources() {
			f.Resources[r] = seedFaction.Resources[string(r)]
			f.Production[r] = seedFaction.Production[string(r)]
		}
		for _, tech := range cat.TechNames() {
			f.Tech[tech] = 0
		}
		for _, pol := range cat.PolicyNames() {
			f.Policies[pol] = false
		}
		ws.Factions[seedFaction.Name] = f
	}

	if sink == nil {
		sink = telemetry.SlogSink{}
	}
	return &World{
		State:   ws,
		Catalog: cat,
		RNG:     entropy.NewStream(seed),
		Sink:    sink,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
