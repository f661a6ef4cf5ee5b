package scape

import (
	"github.com/daVinciBot1495/halite-3/internal/bot"
	"github.com/daVinciBot1495/halite-3/internal/model"
)

// GridEncoder discretizes ship observations into engine states. It is
// the reference implementation of the encoder contract: pure given the
// same observation and slot.
type GridEncoder struct {
	haliteMax int
	cargoMax  int
}

func NewGridEncoder(haliteMax int) *GridEncoder {
	return &GridEncoder{
		haliteMax: haliteMax,
		cargoMax:  haliteMax,
	}
}

func (e *GridEncoder) EncodeState(obs bot.Observation, slot int) model.State {
	ship := obs.(ShipObservation)
	s := ship.Scape

	return model.State{
		HaliteHere:  e.level(s.haliteAt(ship.X, ship.Y)),
		HaliteNorth: e.level(s.haliteAt(ship.X, s.wrapY(ship.Y-1))),
		HaliteSouth: e.level(s.haliteAt(ship.X, s.wrapY(ship.Y+1))),
		HaliteEast:  e.level(s.haliteAt(s.wrapX(ship.X+1), ship.Y)),
		HaliteWest:  e.level(s.haliteAt(s.wrapX(ship.X-1), ship.Y)),
		Cargo:       e.cargoLevel(ship.Cargo),
		DropoffDir:  s.dropoffDirection(ship.X, ship.Y),
		Slot:        slot,
	}
}

// LegalActions offers STILL plus every move into a cell not yet claimed
// by an earlier ship this turn, in canonical action order. The chosen
// destination is claimed as a side effect of the driver acting on it,
// via ClaimDestination below.
func (e *GridEncoder) LegalActions(obs bot.Observation) []model.Action {
	ship := obs.(ShipObservation)
	s := ship.Scape

	legal := make([]model.Action, 0, len(model.Actions))
	for _, action := range model.Actions {
		if action == model.Still {
			legal = append(legal, action)
			continue
		}
		dx, dy := action.Offset()
		if !ship.claimedSet[s.index(s.wrapX(ship.X+dx), s.wrapY(ship.Y+dy))] {
			legal = append(legal, action)
		}
	}
	return legal
}

// Commit records a ship's committed next position so the legal sets of
// ships evaluated later in the same turn exclude it.
func (e *GridEncoder) Commit(obs bot.Observation, action model.Action) {
	ship := obs.(ShipObservation)
	s := ship.Scape
	dx, dy := action.Offset()
	ship.claimedSet[s.index(s.wrapX(ship.X+dx), s.wrapY(ship.Y+dy))] = true
}

// dropoffDirection points toward the dropoff along the shorter wrapped
// axis, preferring horizontal movement; Still when already there.
func (s *MiningScape) dropoffDirection(x, y int) model.Action {
	if x == s.dropoffX && y == s.dropoffY {
		return model.Still
	}
	if x != s.dropoffX {
		d := s.wrapX(s.dropoffX - x)
		if d <= s.cfg.Width/2 {
			return model.East
		}
		return model.West
	}
	d := s.wrapY(s.dropoffY - y)
	if d <= s.cfg.Height/2 {
		return model.South
	}
	return model.North
}

func (e *GridEncoder) level(halite int) int {
	return quantize(halite, e.haliteMax, model.HaliteLevels)
}

func (e *GridEncoder) cargoLevel(cargo int) int {
	return quantize(cargo, e.cargoMax, model.CargoLevels)
}

// quantize maps v in [0, max] onto [0, levels).
func quantize(v, max, levels int) int {
	if v <= 0 {
		return 0
	}
	if v >= max {
		return levels - 1
	}
	return v * levels / max
}
