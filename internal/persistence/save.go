// File-based save blobs and the deterministic state hash used by replay
// verification. A save is the seed, the full state, and the action log;
// replaying it reseeds and reapplies every action.
package persistence

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/talgya/empires-beyond/internal/engine"
)

// SaveBlob is the on-disk save format.
type SaveBlob struct {
	Seed    int64              `json:"seed"`
	State   *engine.WorldState `json:"state"`
	Actions []engine.Action    `json:"actions"`
}

// WriteSave writes a save blob as indented JSON.
func WriteSave(path string, blob SaveBlob) error {
	raw, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// ReadSave loads a save blob from disk.
func ReadSave(path string) (SaveBlob, error) {
	var blob SaveBlob
	raw, err := os.ReadFile(path)
	if err != nil {
		return blob, fmt.Errorf("read save: %w", err)
	}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return blob, fmt.Errorf("parse save %s: %w", path, err)
	}
	return blob, nil
}

// StateHash returns a deterministic FNV-1a hash of the canonical JSON form
// of the state. encoding/json emits map keys in sorted order, so identical
// states always hash identically.
func StateHash(ws *engine.WorldState) string {
	raw, err := json.Marshal(ws)
	if err != nil {
		return "0x0"
	}
	h := fnv.New32a()
	h.Write(raw)
	return fmt.Sprintf("0x%08x", h.Sum32())
}
