package bot

import (
	"context"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/daVinciBot1495/halite-3/internal/fleet"
	"github.com/daVinciBot1495/halite-3/internal/learn"
	"github.com/daVinciBot1495/halite-3/internal/model"
	"github.com/daVinciBot1495/halite-3/internal/qvalue"
	"github.com/daVinciBot1495/halite-3/internal/storage"
)

type stubObs struct {
	key string
}

func (o stubObs) AgentKey() string { return o.key }

// stubEncoder serves canned states and legal sets keyed by agent and
// records the slot each ship was encoded with.
type stubEncoder struct {
	states map[string]model.State
	legal  map[string][]model.Action
	slots  map[string]int
}

func newStubEncoder() *stubEncoder {
	return &stubEncoder{
		states: make(map[string]model.State),
		legal:  make(map[string][]model.Action),
		slots:  make(map[string]int),
	}
}

func (e *stubEncoder) EncodeState(obs Observation, slot int) model.State {
	e.slots[obs.AgentKey()] = slot
	state := e.states[obs.AgentKey()]
	state.Slot = slot
	return state
}

func (e *stubEncoder) LegalActions(obs Observation) []model.Action {
	return e.legal[obs.AgentKey()]
}

// commitEncoder additionally records action commitments.
type commitEncoder struct {
	*stubEncoder
	commits []Command
}

func (e *commitEncoder) Commit(obs Observation, action model.Action) {
	e.commits = append(e.commits, Command{AgentKey: obs.AgentKey(), Action: action})
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDriver(t *testing.T, maxContexts int, encoder Encoder, cfgFn func(*Config)) (*Driver, *qvalue.Table) {
	t.Helper()

	table := qvalue.NewTable()
	learnCfg := learn.DefaultConfig()
	learnCfg.ExplorationRate = 0 // deterministic greedy choices
	learner, err := learn.NewLearner(table, learnCfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new learner: %v", err)
	}
	manager, err := fleet.NewManager(maxContexts)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	cfg := Config{
		Manager: manager,
		Learner: learner,
		Table:   table,
		Encoder: encoder,
		Log:     quietLogger(),
	}
	if cfgFn != nil {
		cfgFn(&cfg)
	}
	driver, err := NewDriver(cfg)
	if err != nil {
		t.Fatalf("new driver: %v", err)
	}
	return driver, table
}

func TestPlayTurnLearnsFromTerminalReward(t *testing.T) {
	encoder := newStubEncoder()
	encoder.states["s0"] = model.State{HaliteHere: 1}
	encoder.legal["s0"] = []model.Action{model.Still, model.North}
	driver, table := newTestDriver(t, 4, encoder, nil)

	// First turn: no previous pair, so the ship only acts.
	commands, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn:   1,
		Agents: []AgentTurn{{Obs: stubObs{key: "s0"}, Reward: 0}},
	})
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if len(commands) != 1 {
		t.Fatalf("turn 1 commands: got %d, want 1", len(commands))
	}
	// All values are zero so the greedy choice is the first legal action.
	if commands[0].Action != model.Still {
		t.Fatalf("turn 1 action: got %v, want still", commands[0].Action)
	}
	if table.Len() != 0 {
		t.Fatalf("no update expected on the first turn, table has %d entries", table.Len())
	}

	firstState := model.State{HaliteHere: 1, Slot: 0}

	// Second turn: the reward earned since the first action arrives and
	// is terminal under the default policy, crediting the first pair.
	encoder.states["s0"] = model.State{HaliteHere: 2}
	_, err = driver.PlayTurn(context.Background(), TurnInput{
		Turn:   2,
		Agents: []AgentTurn{{Obs: stubObs{key: "s0"}, Reward: 5}},
	})
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}

	// learningRate * reward with no bootstrap on a terminal transition.
	if got := table.Value(firstState, model.Still); got != 0.5 {
		t.Fatalf("value after terminal reward: got %v, want 0.5", got)
	}
	if got := table.Trace(firstState, model.Still); got != 0 {
		t.Fatalf("trace should be cleared on terminal reward, got %v", got)
	}
}

func TestPlayTurnSkipsShipsBeyondPoolCapacity(t *testing.T) {
	encoder := newStubEncoder()
	encoder.legal["a"] = []model.Action{model.Still}
	encoder.legal["b"] = []model.Action{model.Still}
	driver, _ := newTestDriver(t, 1, encoder, nil)

	commands, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn: 1,
		Agents: []AgentTurn{
			{Obs: stubObs{key: "b"}},
			{Obs: stubObs{key: "a"}},
		},
	})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	// The single slot goes to the first key in sorted order.
	if len(commands) != 1 || commands[0].AgentKey != "a" {
		t.Fatalf("commands: got %+v, want one command for a", commands)
	}
}

func TestPlayTurnReleasesVanishedShips(t *testing.T) {
	encoder := newStubEncoder()
	for _, key := range []string{"a", "b", "c"} {
		encoder.legal[key] = []model.Action{model.Still}
	}
	driver, _ := newTestDriver(t, 2, encoder, nil)

	_, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn: 1,
		Agents: []AgentTurn{
			{Obs: stubObs{key: "a"}},
			{Obs: stubObs{key: "b"}},
		},
	})
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if encoder.slots["a"] != 0 || encoder.slots["b"] != 1 {
		t.Fatalf("slots: a=%d b=%d, want 0 and 1", encoder.slots["a"], encoder.slots["b"])
	}

	// a sinks; c spawns and inherits a's freed slot.
	commands, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn: 2,
		Agents: []AgentTurn{
			{Obs: stubObs{key: "b"}},
			{Obs: stubObs{key: "c"}},
		},
	})
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if len(commands) != 2 {
		t.Fatalf("turn 2 commands: got %d, want 2", len(commands))
	}
	if encoder.slots["c"] != 0 {
		t.Fatalf("slot for c: got %d, want reused slot 0", encoder.slots["c"])
	}
}

func TestPlayTurnRejectsDuplicateAgentKeys(t *testing.T) {
	encoder := newStubEncoder()
	encoder.legal["a"] = []model.Action{model.Still}
	driver, _ := newTestDriver(t, 2, encoder, nil)

	_, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn: 1,
		Agents: []AgentTurn{
			{Obs: stubObs{key: "a"}},
			{Obs: stubObs{key: "a"}},
		},
	})
	if err == nil {
		t.Fatal("expected error for duplicate agent key")
	}
}

func TestPlayTurnIdlesShipWithNoLegalActions(t *testing.T) {
	encoder := newStubEncoder()
	encoder.legal["a"] = nil
	driver, table := newTestDriver(t, 2, encoder, nil)

	commands, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn:   1,
		Agents: []AgentTurn{{Obs: stubObs{key: "a"}, Reward: 3}},
	})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if len(commands) != 0 {
		t.Fatalf("commands: got %d, want 0", len(commands))
	}
	if table.Len() != 0 {
		t.Fatalf("no update expected for an idle ship, table has %d entries", table.Len())
	}
}

func TestPlayTurnHonorsCancelledContext(t *testing.T) {
	driver, _ := newTestDriver(t, 1, newStubEncoder(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := driver.PlayTurn(ctx, TurnInput{Turn: 1}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestPlayTurnReportsCommitments(t *testing.T) {
	encoder := &commitEncoder{stubEncoder: newStubEncoder()}
	encoder.legal["a"] = []model.Action{model.North}
	encoder.legal["b"] = []model.Action{model.East}
	driver, _ := newTestDriver(t, 2, encoder, nil)

	_, err := driver.PlayTurn(context.Background(), TurnInput{
		Turn: 1,
		Agents: []AgentTurn{
			{Obs: stubObs{key: "b"}},
			{Obs: stubObs{key: "a"}},
		},
	})
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if len(encoder.commits) != 2 {
		t.Fatalf("commits: got %d, want 2", len(encoder.commits))
	}
	// Commitments arrive in sorted key order with the chosen actions.
	if encoder.commits[0].AgentKey != "a" || encoder.commits[0].Action != model.North {
		t.Fatalf("first commit: got %+v", encoder.commits[0])
	}
	if encoder.commits[1].AgentKey != "b" || encoder.commits[1].Action != model.East {
		t.Fatalf("second commit: got %+v", encoder.commits[1])
	}
}

func TestPlayTurnSavesSnapshotOnFinalTrainingTurn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.txt")

	encoder := newStubEncoder()
	encoder.states["a"] = model.State{HaliteHere: 1}
	encoder.legal["a"] = []model.Action{model.Still}
	driver, table := newTestDriver(t, 1, encoder, func(cfg *Config) {
		cfg.SnapshotPath = path
		cfg.Training = true
		cfg.FinalTurn = 2
	})

	for turn := 1; turn <= 2; turn++ {
		_, err := driver.PlayTurn(context.Background(), TurnInput{
			Turn:   turn,
			Agents: []AgentTurn{{Obs: stubObs{key: "a"}, Reward: 1}},
		})
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
	}

	loaded, err := storage.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if len(loaded) != table.Len() {
		t.Fatalf("snapshot entries: got %d, want %d", len(loaded), table.Len())
	}
	if table.Len() == 0 {
		t.Fatal("expected the second turn to write at least one value")
	}
}
