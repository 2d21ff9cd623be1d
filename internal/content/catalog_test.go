package content

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if len(c.Roster) != 4 {
		t.Errorf("roster size = %d, want 4", len(c.Roster))
	}
	if _, ok := c.Techs[c.ColonyGateTech]; !ok {
		t.Fatalf("colony gate tech %q missing from tech table", c.ColonyGateTech)
	}

	for name, tech := range c.Techs {
		if tech.Prereq == "" {
			continue
		}
		if _, ok := c.Techs[tech.Prereq]; !ok {
			t.Errorf("tech %s has dangling prereq %q", name, tech.Prereq)
		}
	}

	for name, pol := range c.Policies {
		if pol.RequiresTech == "" {
			continue
		}
		if _, ok := c.Techs[pol.RequiresTech]; !ok {
			t.Errorf("policy %s requires unknown tech %q", name, pol.RequiresTech)
		}
	}

	for _, hab := range c.Habitats {
		if hab.TravelTurns < 1 {
			t.Errorf("habitat %s has non-positive travel time", hab.Name)
		}
	}
}

func TestSortedNameHelpers(t *testing.T) {
	c := Default()
	for _, names := range [][]string{c.TechNames(), c.PolicyNames(), c.HabitatNames()} {
		for i := 1; i < len(names); i++ {
			if names[i-1] >= names[i] {
				t.Fatalf("names not strictly sorted: %v", names)
			}
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestParseRejectsEmptyRoster(t *testing.T) {
	_, err := parse([]byte("colony_gate_tech: x\ntechs:\n  x:\n    name: x\nroster: []\n"))
	if err == nil {
		t.Fatal("expected error for empty roster")
	}
}
