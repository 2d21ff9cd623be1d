// Command empires runs the Empires Beyond campaign shell: an interactive
// turn-based loop where every command inspects or advances one shared
// world state.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/talgya/empires-beyond/internal/api"
	"github.com/talgya/empires-beyond/internal/content"
	"github.com/talgya/empires-beyond/internal/engine"
	"github.com/talgya/empires-beyond/internal/persistence"
	"github.com/talgya/empires-beyond/internal/render"
	"github.com/talgya/empires-beyond/internal/telemetry"
)

const defaultSeed = 12345

func main() {
	debug := flag.Bool("debug", false, "reveal hidden state in views")
	dbPath := flag.String("db", "", "optional SQLite path for snapshots and the replay log")
	apiPort := flag.Int("api-port", 0, "serve the read-only HTTP API on this port (0 = off)")
	catalogPath := flag.String("catalog", "", "optional catalog YAML override")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cat := content.Default()
	if *catalogPath != "" {
		loaded, err := content.LoadFile(*catalogPath)
		if err != nil {
			slog.Error("catalog load failed", "error", err)
			os.Exit(1)
		}
		cat = loaded
	}

	var db *persistence.DB
	if *dbPath != "" {
		var err error
		db, err = persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", *dbPath)
	}

	shell := &shell{
		catalog: cat,
		db:      db,
		debug:   *debug,
		apiPort: *apiPort,
		out:     os.Stdout,
	}

	fmt.Println("Empires Beyond (CLI)")
	fmt.Println("Commands: new [seed], load <file>, save <file>, replay <file>, help, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !shell.dispatch(strings.Fields(line)) {
			return
		}
	}
}

// shell holds the session: the live world, the action log that makes the
// session replayable, and the cached action menu for `do`.
type shell struct {
	catalog *content.Catalog
	db      *persistence.DB
	debug   bool
	apiPort int
	out     *os.File

	world      *engine.World
	sink       *telemetry.MemorySink
	seed       int64
	actionsLog []engine.Action

	lastActions []engine.Action
	lastLabel   string
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// dispatch handles one command line. Returns false to exit.
func (s *shell) dispatch(cmd []string) bool {
	switch cmd[0] {
	case "quit", "exit":
		return false
	case "help":
		s.printf("%s", helpText)
		return true
	case "new":
		seed := int64(defaultSeed)
		if len(cmd) > 1 {
			if n, err := strconv.ParseInt(cmd[1], 10, 64); err == nil {
				seed = n
			}
		}
		s.newGame(seed)
		return true
	case "load":
		s.loadGame(argOr(cmd, 1, "save.json"))
		return true
	case "replay":
		s.replay(argOr(cmd, 1, "save.json"))
		return true
	}

	if s.world == nil {
		s.printf("Start a game with: new [seed]")
		return true
	}
	ws := s.world.State
	reveal := s.debug || ws.Debug["reveal_hidden"]

	switch cmd[0] {
	case "show", "top":
		s.printf("%s", render.Dashboard(ws, reveal))
	case "factions":
		s.printf("%s", render.Factions(ws))
	case "faction":
		if len(cmd) < 2 {
			s.printf("Usage: faction <name>")
			return true
		}
		s.printf("%s", render.FactionDetail(ws, strings.Join(cmd[1:], " "), reveal))
	case "research":
		s.printf("%s", render.Research(ws))
	case "policies":
		s.printf("%s", render.Policies(ws))
	case "wars":
		s.printf("%s", render.Wars(ws))
	case "treaties":
		s.printf("%s", render.Treaties(ws))
	case "market":
		s.printf("%s", render.MarketView(ws))
	case "space":
		s.printf("%s", render.Space(ws, reveal))
	case "actions":
		s.listActions(strings.Join(cmd[1:], " "))
	case "do":
		if len(cmd) < 2 {
			s.printf("Usage: do <action_index>")
			return true
		}
		s.doAction(cmd[1])
	case "tick":
		s.advance()
	case "save":
		s.saveGame(argOr(cmd, 1, "save.json"))
	case "hash":
		s.printf("%s", persistence.StateHash(ws))
	default:
		s.printf("Commands: show, actions, do <i>, tick, save <f>, load <f>, replay <f>, hash, quit")
	}
	return true
}

func (s *shell) newGame(seed int64) {
	s.sink = &telemetry.MemorySink{}
	s.world = engine.NewGame(s.catalog, seed, s.sink)
	s.seed = seed
	s.actionsLog = nil
	s.lastActions = nil
	s.lastLabel = "none"
	s.printf("New game created. Seed: %d", seed)

	if s.apiPort > 0 {
		server := &api.Server{World: s.world, Port: s.apiPort}
		server.Start()
		s.apiPort = 0 // Start once per process.
	}
}

// listActions shows the action menu: grouped by faction by default,
// flat with "all", or filtered to one faction by name.
func (s *shell) listActions(arg string) {
	all := s.world.AvailableActions()

	if strings.EqualFold(arg, "all") {
		s.lastActions = all
		s.lastLabel = "all"
		for i, a := range all {
			s.printf("[%d] %s", i, a.Describe())
		}
		return
	}

	if arg != "" {
		name := s.resolveFaction(arg)
		if name == "" {
			s.printf("Unknown faction '%s'. Try: factions", arg)
			return
		}
		var filtered []engine.Action
		for _, a := range all {
			for _, inv := range a.Involves() {
				if inv == name {
					filtered = append(filtered, a)
					break
				}
			}
		}
		s.lastActions = filtered
		s.lastLabel = name
		s.printf("Actions involving %s:", name)
		for i, a := range filtered {
			s.printf("[%d] %s", i, a.Describe())
		}
		return
	}

	// Grouped view; the flattened list matches the printed indices.
	groups := make(map[string][]engine.Action)
	for _, a := range all {
		involved := a.Involves()
		if len(involved) == 0 {
			involved = []string{"(global)"}
		}
		for _, f := range involved {
			groups[f] = append(groups[f], a)
		}
	}

	var flat []engine.Action
	s.printf("Actions (grouped). Tip: `actions <faction>` to filter, `actions all` for a flat list.")
	for _, g := range s.world.State.FactionNames() {
		if len(groups[g]) == 0 {
			continue
		}
		s.printf("\n== %s ==", g)
		for _, a := range groups[g] {
			flat = append(flat, a)
			s.printf("[%d] %s", len(flat)-1, a.Describe())
		}
	}
	s.lastActions = flat
	s.lastLabel = "grouped"
}

func (s *shell) resolveFaction(arg string) string {
	for _, n := range s.world.State.FactionNames() {
		if strings.EqualFold(n, arg) {
			return n
		}
	}
	return ""
}

func (s *shell) doAction(idxArg string) {
	if len(s.lastActions) == 0 {
		s.lastActions = s.world.AvailableActions()
		s.lastLabel = "auto"
	}
	idx, err := strconv.Atoi(idxArg)
	if err != nil {
		s.printf("Bad index (must be an integer).")
		return
	}
	if idx < 0 || idx >= len(s.lastActions) {
		s.printf("Bad index. You have %d actions listed (view: %s).", len(s.lastActions), s.lastLabel)
		return
	}

	action := s.lastActions[idx]
	s.world.Apply(action)
	s.actionsLog = append(s.actionsLog, action)
	if s.db != nil {
		if err := s.db.AppendAction(s.world.State.Turn, action); err != nil {
			slog.Error("append action failed", "error", err)
		}
	}
	s.advance()
}

// advance runs one turn and prints the turn log plus any notifications.
func (s *shell) advance() {
	log := s.world.Tick()
	for _, line := range log {
		s.printf("%s", line)
	}
	for _, n := range s.sink.Drain() {
		s.printf("EVENT[%s]: %v", n.Event, n.Payload)
	}
	s.lastActions = nil
	s.lastLabel = "none"

	if s.db != nil {
		if err := s.db.SaveSnapshot(s.world.State); err != nil {
			slog.Error("snapshot failed", "error", err)
		}
		if err := s.db.SavePostmortems(s.world.State.Colony.Postmortems); err != nil {
			slog.Error("postmortem archive failed", "error", err)
		}
	}
}

func (s *shell) saveGame(path string) {
	blob := persistence.SaveBlob{Seed: s.seed, State: s.world.State, Actions: s.actionsLog}
	if err := persistence.WriteSave(path, blob); err != nil {
		s.printf("Save failed: %v", err)
		return
	}
	s.printf("Saved: %s", path)
}

func (s *shell) loadGame(path string) {
	blob, err := persistence.ReadSave(path)
	if err != nil {
		s.printf("Load failed: %v", err)
		return
	}
	s.sink = &telemetry.MemorySink{}
	s.world = engine.NewGame(s.catalog, blob.Seed, s.sink)
	s.world.State = blob.State
	s.seed = blob.Seed
	s.actionsLog = blob.Actions
	s.lastActions = nil
	s.lastLabel = "none"
	s.printf("Loaded: %s Seed: %d Turns: %d", path, blob.Seed, len(blob.Actions))
}

// replay rebuilds a game from its seed and action log, printing the final
// deterministic hash for comparison.
func (s *shell) replay(path string) {
	blob, err := persistence.ReadSave(path)
	if err != nil {
		s.printf("Replay failed: %v", err)
		return
	}
	s.sink = &telemetry.MemorySink{}
	s.world = engine.NewGame(s.catalog, blob.Seed, s.sink)
	s.seed = blob.Seed
	for _, a := range blob.Actions {
		s.world.Apply(a)
		s.world.Tick()
	}
	s.sink.Drain()
	s.actionsLog = blob.Actions
	s.lastActions = nil
	s.printf("Replay done. Final hash: %s", persistence.StateHash(s.world.State))
}

func argOr(cmd []string, i int, def string) string {
	if len(cmd) > i {
		return cmd[i]
	}
	return def
}

const helpText = `Commands:
  new [seed]            start a new game
  show | top            summary dashboard
  factions              list factions
  faction <name>        detailed faction view
  research              researched tech per faction
  policies              active policies per faction
  wars                  list active wars
  treaties              list treaties
  market                macro economy
  space                 space ops summary
  actions [all|<name>]  show numbered actions
  do <i>                take action i and advance one turn
  tick                  advance one turn without action
  save <file>           save game JSON
  load <file>           load game JSON
  replay <file>         replay from saved seed+actions
  hash                  deterministic state hash
  quit                  exit`
