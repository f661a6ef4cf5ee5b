// Package halite is the embedding API for the learning engine. A real
// bot constructs one Client at process start, feeds it a TurnInput per
// turn, and translates the returned commands into engine moves.
package halite

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/daVinciBot1495/halite-3/internal/bot"
	"github.com/daVinciBot1495/halite-3/internal/fleet"
	"github.com/daVinciBot1495/halite-3/internal/learn"
	"github.com/daVinciBot1495/halite-3/internal/qvalue"
)

const defaultMaxShips = 8

type Options struct {
	// ValuesPath is the snapshot file; missing means a cold start.
	ValuesPath string
	// MaxShips bounds the context pool.
	MaxShips int
	// Learner holds the hyperparameters; zero value gets defaults.
	Learner learn.Config
	// Seed drives the exploration source, the engine's only
	// nondeterminism.
	Seed int64
	// Training gates whether the snapshot is written back.
	Training bool
	// FinalTurn is the turn on which the snapshot save fires.
	FinalTurn int

	Encoder bot.Encoder
	Log     *logrus.Logger
}

type Client struct {
	driver   *bot.Driver
	table    *qvalue.Table
	training bool
}

// New builds the engine and restores the persisted value table. A
// malformed snapshot is fatal; callers should abort startup.
func New(opts Options) (*Client, error) {
	maxShips := opts.MaxShips
	if maxShips <= 0 {
		maxShips = defaultMaxShips
	}
	learnerCfg := opts.Learner
	if learnerCfg == (learn.Config{}) {
		learnerCfg = learn.DefaultConfig()
	}
	// The string knobs default individually, so a caller can set one
	// numeric field without restating the whole config.
	if learnerCfg.Terminal == "" {
		learnerCfg.Terminal = learn.TerminalOnReward
	}
	if learnerCfg.Rule == "" {
		learnerCfg.Rule = learn.RuleSARSA
	}

	table := qvalue.NewTable()
	learner, err := learn.NewLearner(table, learnerCfg, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}
	manager, err := fleet.NewManager(maxShips)
	if err != nil {
		return nil, err
	}
	driver, err := bot.NewDriver(bot.Config{
		Manager:      manager,
		Learner:      learner,
		Table:        table,
		Encoder:      opts.Encoder,
		SnapshotPath: opts.ValuesPath,
		Training:     opts.Training,
		FinalTurn:    opts.FinalTurn,
		Log:          opts.Log,
	})
	if err != nil {
		return nil, err
	}
	if opts.ValuesPath != "" {
		if err := driver.LoadSnapshot(); err != nil {
			return nil, err
		}
	}

	return &Client{driver: driver, table: table, training: opts.Training}, nil
}

// PlayTurn runs one engine turn.
func (c *Client) PlayTurn(ctx context.Context, input bot.TurnInput) ([]bot.Command, error) {
	return c.driver.PlayTurn(ctx, input)
}

// TableSize reports the number of learned value entries.
func (c *Client) TableSize() int {
	return c.table.Len()
}

// Close checkpoints the value table when training. It is the explicit
// process-boundary save for callers that cannot predict the final turn.
func (c *Client) Close() error {
	if !c.training {
		return nil
	}
	return c.driver.SaveSnapshot()
}
