// Package api provides a read-only HTTP view of the game state.
// All endpoints are GET observation endpoints; the simulation is driven
// exclusively through the CLI, never over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/talgya/empires-beyond/internal/engine"
)

// Server serves the world state over HTTP.
type Server struct {
	World *engine.World
	Port  int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/factions", s.handleFactions)
	mux.HandleFunc("/api/v1/faction/", s.handleFactionDetail)
	mux.HandleFunc("/api/v1/wars", s.handleWars)
	mux.HandleFunc("/api/v1/treaties", s.handleTreaties)
	mux.HandleFunc("/api/v1/space", s.handleSpace)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ws := s.World.State
	writeJSON(w, map[string]any{
		"turn":      ws.Turn,
		"seed":      ws.Seed,
		"factions":  len(ws.Factions),
		"wars":      len(ws.Wars),
		"treaties":  len(ws.Treaties),
		"inflation": ws.Market.Inflation,
		"space":     ws.Colony.Unlocked,
		"habitats":  len(ws.Colony.Habitats),
	})
}

// handleFactions returns the public view of every faction. Hidden state
// (the affinity pair and resonance debt) is withheld unless the
// reveal_hidden debug flag is set on the world.
func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	ws := s.World.State
	reveal := ws.Debug["reveal_hidden"]

	out := make([]map[string]any, 0, len(ws.Factions))
	for _, name := range ws.FactionNames() {
		out = append(out, factionView(ws.Factions[name], reveal))
	}
	writeJSON(w, out)
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/faction/")
	f, ok := s.World.State.Factions[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, factionView(f, s.World.State.Debug["reveal_hidden"]))
}

func factionView(f *engine.Faction, reveal bool) map[string]any {
	view := map[string]any{
		"name":        f.Name,
		"traits":      f.Traits,
		"population":  f.Population,
		"resources":   f.Resources,
		"policies":    f.Policies,
		"tech":        f.Tech,
		"unrest":      f.Unrest,
		"war_exhaust": f.WarExhaust,
		"intel":       f.Intel,
	}
	if reveal {
		view["affinity"] = f.Affinity
		view["rho"] = f.Rho
	}
	return view
}

func (s *Server) handleWars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.World.State.Wars)
}

func (s *Server) handleTreaties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.World.State.Treaties)
}

func (s *Server) handleSpace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.World.State.Colony)
}
