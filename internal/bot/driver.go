// Package bot orchestrates one engine turn: reconcile ship contexts
// against the live fleet, pick an action per ship, apply the learning
// update for the previous pair, and emit move commands.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/daVinciBot1495/halite-3/internal/fleet"
	"github.com/daVinciBot1495/halite-3/internal/learn"
	"github.com/daVinciBot1495/halite-3/internal/model"
	"github.com/daVinciBot1495/halite-3/internal/qvalue"
	"github.com/daVinciBot1495/halite-3/internal/storage"
)

// Observation is the raw per-ship view produced by the turn engine. The
// driver treats it as opaque beyond its key; the encoder does the rest.
type Observation interface {
	AgentKey() string
}

// Encoder turns raw observations into discretized states and legal
// moves. slot is the ship's context identifier, embedded in the state
// so the shared table can tell otherwise-identical ships apart.
// EncodeState must be pure: identical observation and slot, identical
// state.
type Encoder interface {
	EncodeState(obs Observation, slot int) model.State
	LegalActions(obs Observation) []model.Action
}

// Committer is an optional Encoder extension. When implemented, the
// driver reports each chosen action before computing the next ship's
// legal set, letting the environment expose earlier ships' provisional
// destination commitments to later ones.
type Committer interface {
	Commit(obs Observation, action model.Action)
}

// AgentTurn carries one ship's observation and the reward it realized
// since its previous action.
type AgentTurn struct {
	Obs    Observation
	Reward float64
}

// TurnInput is everything the driver needs for one turn.
type TurnInput struct {
	Turn   int
	Agents []AgentTurn
}

// Command is a chosen action ready for translation into an engine move.
type Command struct {
	AgentKey string
	Action   model.Action
}

type Config struct {
	Manager *fleet.Manager
	Learner *learn.Learner
	Table   *qvalue.Table
	Encoder Encoder

	// SnapshotPath is where the value table is persisted. Saves happen
	// only when Training is set and the turn equals FinalTurn, keeping
	// file I/O off the per-turn hot path.
	SnapshotPath string
	Training     bool
	FinalTurn    int

	Log *logrus.Logger
}

type Driver struct {
	manager *fleet.Manager
	learner *learn.Learner
	table   *qvalue.Table
	encoder Encoder

	snapshotPath string
	training     bool
	finalTurn    int

	log *logrus.Logger
}

func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Manager == nil {
		return nil, errors.New("context manager is required")
	}
	if cfg.Learner == nil {
		return nil, errors.New("learner is required")
	}
	if cfg.Table == nil {
		return nil, errors.New("value table is required")
	}
	if cfg.Encoder == nil {
		return nil, errors.New("encoder is required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Driver{
		manager:      cfg.Manager,
		learner:      cfg.Learner,
		table:        cfg.Table,
		encoder:      cfg.Encoder,
		snapshotPath: cfg.SnapshotPath,
		training:     cfg.Training,
		finalTurn:    cfg.FinalTurn,
		log:          log,
	}, nil
}

// PlayTurn runs one full turn. Ships are visited in sorted-key order so
// the environment's occupancy constraints stay well-defined: a later
// ship's legal actions may depend on the commitments of earlier ones.
// Failures are terminal for the affected ship's turn, never for the
// whole turn.
func (d *Driver) PlayTurn(ctx context.Context, input TurnInput) ([]Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	turns := make(map[string]AgentTurn, len(input.Agents))
	keys := make([]string, 0, len(input.Agents))
	for _, agent := range input.Agents {
		key := agent.Obs.AgentKey()
		if _, ok := turns[key]; ok {
			return nil, fmt.Errorf("duplicate agent key in turn input: %s", key)
		}
		turns[key] = agent
		keys = append(keys, key)
	}
	sort.Strings(keys)

	d.reconcile(turns)

	commands := make([]Command, 0, len(keys))
	for _, key := range keys {
		agent := turns[key]

		shipCtx, err := d.manager.Context(key)
		if err != nil {
			// Context allocation was skipped this turn (pool full).
			continue
		}

		legal := d.encoder.LegalActions(agent.Obs)
		if len(legal) == 0 {
			d.log.WithField("agent", key).Warn("no legal actions; ship idles")
			continue
		}

		state := d.encoder.EncodeState(agent.Obs, shipCtx.Slot())
		action, err := d.learner.ChooseAction(state, legal)
		if err != nil {
			return nil, fmt.Errorf("choose action for %s: %w", key, err)
		}

		if prev, ok := shipCtx.Previous(); ok {
			pair := model.StateAction{State: state, Action: action}
			if err := d.learner.Update(prev, agent.Reward, pair, legal); err != nil {
				return nil, fmt.Errorf("update for %s: %w", key, err)
			}
		}

		shipCtx.SetPrevious(model.StateAction{State: state, Action: action})
		if committer, ok := d.encoder.(Committer); ok {
			committer.Commit(agent.Obs, action)
		}
		commands = append(commands, Command{AgentKey: key, Action: action})
	}

	if d.training && input.Turn == d.finalTurn && d.snapshotPath != "" {
		if err := d.SaveSnapshot(); err != nil {
			return nil, err
		}
	}
	return commands, nil
}

// reconcile releases contexts for vanished ships and allocates contexts
// for new ones, skipping allocation when the pool is exhausted.
func (d *Driver) reconcile(turns map[string]AgentTurn) {
	for _, key := range d.manager.LiveAgentKeys() {
		if _, ok := turns[key]; !ok {
			if err := d.manager.Release(key); err != nil {
				d.log.WithField("agent", key).WithError(err).Error("release failed")
			}
		}
	}

	keys := make([]string, 0, len(turns))
	for key := range turns {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := d.manager.Context(key); err == nil {
			continue
		}
		if !d.manager.HasCapacity() {
			d.log.WithField("agent", key).Warn("context pool exhausted; ship idles this turn")
			continue
		}
		if _, err := d.manager.NewContext(key); err != nil {
			d.log.WithField("agent", key).WithError(err).Error("context allocation failed")
		}
	}
}

// SaveSnapshot persists the current value table.
func (d *Driver) SaveSnapshot() error {
	if d.snapshotPath == "" {
		return errors.New("no snapshot path configured")
	}
	if err := storage.WriteSnapshot(d.snapshotPath, d.table.Values()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	d.log.WithFields(logrus.Fields{
		"path":    d.snapshotPath,
		"entries": d.table.Len(),
	}).Info("value table saved")
	return nil
}

// LoadSnapshot restores a persisted value table, tolerating a missing
// file as a cold start.
func (d *Driver) LoadSnapshot() error {
	if d.snapshotPath == "" {
		return errors.New("no snapshot path configured")
	}
	values, err := storage.LoadSnapshot(d.snapshotPath)
	if err != nil {
		return err
	}
	d.table.ReplaceValues(values)
	return nil
}
