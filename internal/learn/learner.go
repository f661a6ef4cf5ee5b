// Package learn implements the SARSA(λ) learner and its epsilon-greedy
// policy on top of the shared value table.
package learn

import (
	"fmt"
	"math/rand"

	"github.com/daVinciBot1495/halite-3/internal/model"
	"github.com/daVinciBot1495/halite-3/internal/qvalue"
)

// TerminalPolicy decides whether a reward marks the end of an episode.
// Observed variants disagree on the rule, so it is configuration rather
// than a hardcoded predicate.
type TerminalPolicy string

const (
	// TerminalOnReward ends the episode on any nonzero reward.
	TerminalOnReward TerminalPolicy = "nonzero_reward"
	// TerminalOnGain ends the episode on any non-negative reward.
	TerminalOnGain TerminalPolicy = "gain"
	// TerminalNever keeps one continuous episode.
	TerminalNever TerminalPolicy = "never"
)

func (p TerminalPolicy) Terminal(reward float64) bool {
	switch p {
	case TerminalOnGain:
		return reward >= 0
	case TerminalNever:
		return false
	default:
		return reward != 0
	}
}

// Rule selects the bootstrap target of the update.
type Rule string

const (
	// RuleSARSA bootstraps on the value of the action actually chosen
	// in the next state (on-policy).
	RuleSARSA Rule = "sarsa"
	// RuleQLearning bootstraps on the best legal action in the next
	// state (off-policy).
	RuleQLearning Rule = "q_learning"
)

type Config struct {
	LearningRate    float64
	DiscountRate    float64
	TraceDecay      float64
	ExplorationRate float64
	Terminal        TerminalPolicy
	Rule            Rule
}

// DefaultConfig mirrors the hyperparameters the bot trains with.
func DefaultConfig() Config {
	return Config{
		LearningRate:    0.1,
		DiscountRate:    0.9,
		TraceDecay:      0.9,
		ExplorationRate: 0.1,
		Terminal:        TerminalOnReward,
		Rule:            RuleSARSA,
	}
}

func (c Config) validate() error {
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in [0, 1], got %v", c.LearningRate)
	}
	if c.DiscountRate < 0 || c.DiscountRate > 1 {
		return fmt.Errorf("discount rate must be in [0, 1], got %v", c.DiscountRate)
	}
	if c.TraceDecay < 0 || c.TraceDecay > 1 {
		return fmt.Errorf("trace decay must be in [0, 1], got %v", c.TraceDecay)
	}
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("exploration rate must be in [0, 1], got %v", c.ExplorationRate)
	}
	switch c.Terminal {
	case TerminalOnReward, TerminalOnGain, TerminalNever:
	default:
		return fmt.Errorf("unknown terminal policy: %s", c.Terminal)
	}
	switch c.Rule {
	case RuleSARSA, RuleQLearning:
	default:
		return fmt.Errorf("unknown update rule: %s", c.Rule)
	}
	return nil
}

// Learner applies temporal-difference updates with replacing eligibility
// traces to the shared table. It is single-threaded: every ship context
// funnels through the same learner within a turn.
type Learner struct {
	table   *qvalue.Table
	cfg     Config
	rng     *rand.Rand
	episode map[model.StateAction]struct{}
}

// NewLearner wires a learner to the shared table. The rng is the only
// source of nondeterminism in the engine; seed it for reproducible runs.
func NewLearner(table *qvalue.Table, cfg Config, rng *rand.Rand) (*Learner, error) {
	if table == nil {
		return nil, fmt.Errorf("value table is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Learner{
		table:   table,
		cfg:     cfg,
		rng:     rng,
		episode: make(map[model.StateAction]struct{}),
	}, nil
}

// ChooseAction picks an action epsilon-greedily from the legal set
// supplied by the caller. Legality is state-dependent, so the set is an
// argument rather than the global action list.
func (l *Learner) ChooseAction(state model.State, legal []model.Action) (model.Action, error) {
	if len(legal) == 0 {
		return model.Still, qvalue.ErrNoActions
	}
	if l.rng.Float64() < l.cfg.ExplorationRate {
		return legal[l.rng.Intn(len(legal))], nil
	}
	return l.Max(state, legal)
}

// Max returns the highest-valued legal action in state, first-wins on
// ties per the table's Best contract.
func (l *Learner) Max(state model.State, legal []model.Action) (model.Action, error) {
	return l.table.Best(state, legal)
}

// Update applies one temporal-difference step for the transition from
// prev to next with the reward realized in between. nextLegal is the
// legal-action set in the next state; it is only consulted by the
// off-policy rule. On a terminal transition every trace in the episode
// is zeroed and the episode set is cleared.
func (l *Learner) Update(prev model.StateAction, reward float64, next model.StateAction, nextLegal []model.Action) error {
	terminal := l.cfg.Terminal.Terminal(reward)

	backup := 0.0
	if !terminal {
		switch l.cfg.Rule {
		case RuleQLearning:
			best, err := l.table.Best(next.State, nextLegal)
			if err != nil {
				return err
			}
			backup = l.table.Value(next.State, best)
		default:
			backup = l.table.Value(next.State, next.Action)
		}
	}

	target := reward + l.cfg.DiscountRate*backup
	delta := target - l.table.Value(prev.State, prev.Action)

	// Replacing trace: overwrite, never accumulate.
	l.table.SetTrace(prev.State, prev.Action, 1.0)
	l.episode[prev] = struct{}{}

	decay := l.cfg.DiscountRate * l.cfg.TraceDecay
	for pair := range l.episode {
		trace := l.table.Trace(pair.State, pair.Action)
		value := l.table.Value(pair.State, pair.Action)
		l.table.SetValue(pair.State, pair.Action, value+l.cfg.LearningRate*delta*trace)
		l.table.SetTrace(pair.State, pair.Action, trace*decay)
	}

	if terminal {
		l.EndEpisode()
	}
	return nil
}

// EpisodeSize reports how many state-action pairs are pending credit.
func (l *Learner) EpisodeSize() int {
	return len(l.episode)
}

// EndEpisode discards pending credit: every trace in the episode is
// zeroed and the episode set is emptied. Callers that reuse a learner
// across games must end the episode at each game boundary, or the next
// game's first updates credit pairs from the previous one.
func (l *Learner) EndEpisode() {
	for pair := range l.episode {
		l.table.SetTrace(pair.State, pair.Action, 0)
	}
	l.episode = make(map[model.StateAction]struct{})
}
