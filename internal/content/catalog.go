// Package content holds the static content tables: technologies, policies,
// habitat designs and the starting faction roster. The simulation consumes
// these as read-only lookups keyed by name and assumes the catalog is
// complete — referenced names are not re-validated at use sites.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// Tech is one researchable technology.
type Tech struct {
	Name      string  `yaml:"name" json:"name"`
	Credits   float64 `yaml:"credits" json:"credits"`     // Research cost in credits
	Influence float64 `yaml:"influence" json:"influence"` // Research cost in influence
	Prereq    string  `yaml:"prereq" json:"prereq"`       // Required tech, empty = none
}

// Policy is one enactable policy. Multipliers are additive deltas applied on
// top of the 1.0 base production multiplier for the named resources.
type Policy struct {
	Name         string             `yaml:"name" json:"name"`
	Credits      float64            `yaml:"credits" json:"credits"`
	Influence    float64            `yaml:"influence" json:"influence"`
	RequiresTech string             `yaml:"requires_tech" json:"requires_tech"`
	Multipliers  map[string]float64 `yaml:"multipliers" json:"multipliers"`
}

// HabitatSpec is one buildable off-world habitat design.
type HabitatSpec struct {
	Name        string  `yaml:"name" json:"name"`
	Credits     float64 `yaml:"credits" json:"credits"`
	Influence   float64 `yaml:"influence" json:"influence"`
	Metal       float64 `yaml:"metal" json:"metal"`
	Parts       float64 `yaml:"parts" json:"parts"`
	TravelTurns int     `yaml:"travel_turns" json:"travel_turns"` // Shipment transit time
	Radiation   float64 `yaml:"radiation" json:"radiation"`       // Ambient dose, constant per site
	MassCap     float64 `yaml:"mass_cap" json:"mass_cap"`
	PowerGen    float64 `yaml:"power_gen" json:"power_gen"`
	PowerUse    float64 `yaml:"power_use" json:"power_use"`
}

// FactionSeed is one starting roster entry.
type FactionSeed struct {
	Name       string             `yaml:"name" json:"name"`
	Traits     []string           `yaml:"traits" json:"traits"`
	Population int                `yaml:"population" json:"population"`
	Resources  map[string]float64 `yaml:"resources" json:"resources"`
	Production map[string]float64 `yaml:"production" json:"production"`
	AffinityO  float64            `yaml:"affinity_o" json:"affinity_o"`
	AffinityH  float64            `yaml:"affinity_h" json:"affinity_h"`
}

// Catalog bundles every content table.
type Catalog struct {
	ColonyGateTech string                 `yaml:"colony_gate_tech" json:"colony_gate_tech"`
	Techs          map[string]Tech        `yaml:"techs" json:"techs"`
	Policies       map[string]Policy      `yaml:"policies" json:"policies"`
	Habitats       map[string]HabitatSpec `yaml:"habitats" json:"habitats"`
	Roster         []FactionSeed          `yaml:"roster" json:"roster"`
}

// Default returns the embedded catalog. Panics on a malformed embed, which
// is a build defect rather than a runtime condition.
func Default() *Catalog {
	c, err := parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog override from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

func parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if len(c.Roster) == 0 {
		return nil, fmt.Errorf("catalog has empty roster")
	}
	if _, ok := c.Techs[c.ColonyGateTech]; !ok {
		return nil, fmt.Errorf("colony gate tech %q not in tech table", c.ColonyGateTech)
	}
	return &c, nil
}

// TechNames returns tech names in sorted order.
func (c *Catalog) TechNames() []string {
	return sortedKeys(c.Techs)
}

// PolicyNames returns policy names in sorted order.
func (c *Catalog) PolicyNames() []string {
	return sortedKeys(c.Policies)
}

// HabitatNames returns habitat design names in sorted order.
func (c *Catalog) HabitatNames() []string {
	return sortedKeys(c.Habitats)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
