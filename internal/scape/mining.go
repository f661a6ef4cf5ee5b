// Package scape hosts the reference mining environment: a wrapping grid
// of halite cells, a dropoff, and a small fleet of ships. It implements
// the engine's external collaborator contracts (observations, encoder,
// reward signal) so training and end-to-end tests can run without the
// real game server.
package scape

import (
	"fmt"
	"math/rand"

	"github.com/daVinciBot1495/halite-3/internal/bot"
	"github.com/daVinciBot1495/halite-3/internal/model"
)

const (
	// mineFraction of a cell's halite is collected per STILL turn.
	mineFraction = 0.25
	// moveCost is the flat cargo cost of a non-STILL move.
	moveCost = 10
	// spawnInterval is the turn gap between ship spawns.
	spawnInterval = 8
)

type MiningConfig struct {
	Width     int
	Height    int
	Ships     int
	MaxTurns  int
	HaliteMax int
	Seed      int64
}

func DefaultMiningConfig() MiningConfig {
	return MiningConfig{
		Width:     16,
		Height:    16,
		Ships:     4,
		MaxTurns:  200,
		HaliteMax: 1000,
		Seed:      1,
	}
}

// Ship is one mining unit. Position wraps around the grid edges.
type Ship struct {
	Key   string
	X, Y  int
	Cargo int

	// haliteDelta is the reward realized since the ship's last action.
	haliteDelta int
}

// ShipObservation is the raw per-ship view handed to the driver each
// turn. It satisfies bot.Observation.
type ShipObservation struct {
	Key        string
	X, Y       int
	Cargo      int
	Scape      *MiningScape
	claimedSet map[int]bool
}

func (o ShipObservation) AgentKey() string {
	return o.Key
}

// MiningScape is the environment. Deterministic given a seed.
type MiningScape struct {
	cfg    MiningConfig
	halite []int
	ships  map[string]*Ship
	order  []string
	rng    *rand.Rand

	dropoffX, dropoffY int
	turn               int
	banked             int
	spawned            int

	// claimed holds the provisional next-position commitments made
	// earlier in the current turn, so later ships cannot move into an
	// already-taken cell.
	claimed map[int]bool
}

func NewMiningScape(cfg MiningConfig) (*MiningScape, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("grid must be non-empty, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Ships <= 0 {
		return nil, fmt.Errorf("ship count must be > 0, got %d", cfg.Ships)
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be > 0, got %d", cfg.MaxTurns)
	}
	if cfg.HaliteMax <= 0 {
		return nil, fmt.Errorf("halite max must be > 0, got %d", cfg.HaliteMax)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	halite := make([]int, cfg.Width*cfg.Height)
	for i := range halite {
		halite[i] = rng.Intn(cfg.HaliteMax + 1)
	}

	s := &MiningScape{
		cfg:      cfg,
		halite:   halite,
		ships:    make(map[string]*Ship),
		rng:      rng,
		dropoffX: cfg.Width / 2,
		dropoffY: cfg.Height / 2,
		claimed:  make(map[int]bool),
	}
	s.spawn()
	return s, nil
}

// Turn reports the current turn number, starting at 1.
func (s *MiningScape) Turn() int {
	return s.turn + 1
}

// Done reports whether the game is over.
func (s *MiningScape) Done() bool {
	return s.turn >= s.cfg.MaxTurns
}

// Banked reports the total halite delivered to the dropoff.
func (s *MiningScape) Banked() int {
	return s.banked
}

// ShipCount reports the number of live ships.
func (s *MiningScape) ShipCount() int {
	return len(s.ships)
}

// TurnInput builds the driver's input for the current turn. Ships are
// listed in spawn order; the reward is each ship's halite delta since
// its previous action.
func (s *MiningScape) TurnInput() bot.TurnInput {
	s.claimed = make(map[int]bool)
	agents := make([]bot.AgentTurn, 0, len(s.order))
	for _, key := range s.order {
		ship := s.ships[key]
		agents = append(agents, bot.AgentTurn{
			Obs: ShipObservation{
				Key:        ship.Key,
				X:          ship.X,
				Y:          ship.Y,
				Cargo:      ship.Cargo,
				Scape:      s,
				claimedSet: s.claimed,
			},
			Reward: float64(ship.haliteDelta),
		})
	}
	return bot.TurnInput{Turn: s.Turn(), Agents: agents}
}

// Step applies the chosen commands, advances one turn, and accrues each
// ship's reward for the next turn.
func (s *MiningScape) Step(commands []bot.Command) error {
	acted := make(map[string]bool, len(commands))
	for _, command := range commands {
		ship, ok := s.ships[command.AgentKey]
		if !ok {
			return fmt.Errorf("command for unknown ship %s", command.AgentKey)
		}
		acted[command.AgentKey] = true
		s.apply(ship, command.Action)
	}
	// Ships that were skipped (no command) idle in place at no cost.
	for key, ship := range s.ships {
		if !acted[key] {
			ship.haliteDelta = 0
		}
	}

	s.turn++
	if s.spawned < s.cfg.Ships && s.turn%spawnInterval == 0 {
		s.spawn()
	}
	return nil
}

func (s *MiningScape) apply(ship *Ship, action model.Action) {
	before := ship.Cargo
	if action == model.Still {
		mined := int(float64(s.halite[s.index(ship.X, ship.Y)]) * mineFraction)
		s.halite[s.index(ship.X, ship.Y)] -= mined
		ship.Cargo += mined
	} else {
		dx, dy := action.Offset()
		ship.X = s.wrapX(ship.X + dx)
		ship.Y = s.wrapY(ship.Y + dy)
		ship.Cargo -= moveCost
		if ship.Cargo < 0 {
			ship.Cargo = 0
		}
	}

	// Banking converts cargo to score. Delivered halite counts toward
	// the reward so a dropoff visit does not read as a cargo loss.
	delivered := 0
	if ship.X == s.dropoffX && ship.Y == s.dropoffY && ship.Cargo > 0 {
		delivered = ship.Cargo
		s.banked += delivered
		ship.Cargo = 0
	}
	ship.haliteDelta = ship.Cargo - before + delivered
}

func (s *MiningScape) spawn() {
	key := fmt.Sprintf("ship-%02d", s.spawned)
	s.ships[key] = &Ship{Key: key, X: s.dropoffX, Y: s.dropoffY}
	s.order = append(s.order, key)
	s.spawned++
}

func (s *MiningScape) index(x, y int) int {
	return y*s.cfg.Width + x
}

func (s *MiningScape) wrapX(x int) int {
	return ((x % s.cfg.Width) + s.cfg.Width) % s.cfg.Width
}

func (s *MiningScape) wrapY(y int) int {
	return ((y % s.cfg.Height) + s.cfg.Height) % s.cfg.Height
}

func (s *MiningScape) haliteAt(x, y int) int {
	return s.halite[s.index(x, y)]
}
