package model

// Quantization ranges for the discretized observation fields. Each field
// serializes to exactly one character, so every range must fit a single
// digit.
const (
	HaliteLevels = 10
	CargoLevels  = 10
	MaxSlots     = 10
)

// State is the discretized observation a ship sees at the start of a
// turn. States are plain value types: two states with identical fields
// are the same state, whenever they were produced. The encoder builds a
// fresh one every turn and the engine never mutates it.
type State struct {
	// Quantized halite at the ship's cell and its four neighbors,
	// each in [0, HaliteLevels).
	HaliteHere  int
	HaliteNorth int
	HaliteSouth int
	HaliteEast  int
	HaliteWest  int

	// Cargo fullness level in [0, CargoLevels).
	Cargo int

	// Direction toward the nearest dropoff; Still when standing on it.
	DropoffDir Action

	// Slot is the ship's context identifier in [0, MaxSlots). It keeps
	// otherwise-identical observations of different ships distinct in
	// the shared value table.
	Slot int
}

// StateAction pairs a state with the action taken in it. It is the key
// of the value table and the trace map.
type StateAction struct {
	State  State
	Action Action
}

// GameRecord is the per-game training telemetry persisted by the store.
type GameRecord struct {
	RunID  string `json:"run_id"`
	Game   int    `json:"game"`
	Turns  int    `json:"turns"`
	Ships  int    `json:"ships"`
	Halite int    `json:"halite"`
}
