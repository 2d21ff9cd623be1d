package engine_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/talgya/empires-beyond/internal/content"
	"github.com/talgya/empires-beyond/internal/engine"
	"github.com/talgya/empires-beyond/internal/telemetry"
)

// Two worlds built from the same seed and fed the same action script must
// stay byte-identical turn after turn. This is the contract replay depends
// on.
func TestIdenticalSeedsStayInLockstep(t *testing.T) {
	cat := content.Default()
	wa := engine.NewGame(cat, 424242, &telemetry.MemorySink{})
	wb := engine.NewGame(cat, 424242, &telemetry.MemorySink{})

	names := wa.State.FactionNames()
	script := []engine.Action{
		{Kind: engine.ActTreaty, Treaty: engine.TreatyTradePact, A: names[0], B: names[1]},
		{Kind: engine.ActWar, A: names[2], B: names[3]},
		{Kind: engine.ActResearch, Faction: names[0], Tech: "deep_mining"},
		{Kind: engine.ActTrade, A: names[3], B: names[1]},
		{Kind: engine.ActPolicy, Faction: names[1], Policy: "free_market"},
	}

	for turn := 0; turn < 40; turn++ {
		if turn < len(script) {
			wa.Apply(script[turn])
			wb.Apply(script[turn])
		}
		logA := wa.Tick()
		logB := wb.Tick()

		if len(logA) != len(logB) {
			t.Fatalf("turn %d: log lengths diverged: %d != %d", wa.State.Turn, len(logA), len(logB))
		}
		for i := range logA {
			if logA[i] != logB[i] {
				t.Fatalf("turn %d: log line %d diverged:\n%s\n%s", wa.State.Turn, i, logA[i], logB[i])
			}
		}

		ja, err := json.Marshal(wa.State)
		if err != nil {
			t.Fatal(err)
		}
		jb, err := json.Marshal(wb.State)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ja, jb) {
			t.Fatalf("turn %d: serialized states diverged", wa.State.Turn)
		}
	}
}

// A replay from seed plus action log must land on the same state as the
// session that produced it.
func TestReplayReproducesSession(t *testing.T) {
	cat := content.Default()
	live := engine.NewGame(cat, 777, &telemetry.MemorySink{})
	names := live.State.FactionNames()

	var log []engine.Action
	script := []engine.Action{
		{Kind: engine.ActWar, A: names[0], B: names[1]},
		{Kind: engine.ActTreaty, Treaty: engine.TreatyAlliance, A: names[2], B: names[3]},
		{Kind: engine.ActResearch, Faction: names[1], Tech: "ai_governance"},
	}
	for _, a := range script {
		live.Apply(a)
		log = append(log, a)
		live.Tick()
	}

	replayed := engine.NewGame(cat, 777, &telemetry.MemorySink{})
	for _, a := range log {
		replayed.Apply(a)
		replayed.Tick()
	}

	ja, _ := json.Marshal(live.State)
	jb, _ := json.Marshal(replayed.State)
	if !bytes.Equal(ja, jb) {
		t.Fatal("replay did not reproduce the live session state")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cat := content.Default()
	wa := engine.NewGame(cat, 1, &telemetry.MemorySink{})
	wb := engine.NewGame(cat, 2, &telemetry.MemorySink{})

	for turn := 0; turn < 30; turn++ {
		wa.Tick()
		wb.Tick()
		wb.State.Seed = wa.State.Seed // ignore the recorded seed field itself
		ja, _ := json.Marshal(wa.State)
		jb, _ := json.Marshal(wb.State)
		if !bytes.Equal(ja, jb) {
			return
		}
	}
	t.Fatal("thirty turns on different seeds never diverged")
}
