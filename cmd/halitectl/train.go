package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/daVinciBot1495/halite-3/internal/bot"
	"github.com/daVinciBot1495/halite-3/internal/fleet"
	"github.com/daVinciBot1495/halite-3/internal/learn"
	"github.com/daVinciBot1495/halite-3/internal/model"
	"github.com/daVinciBot1495/halite-3/internal/qvalue"
	"github.com/daVinciBot1495/halite-3/internal/scape"
	"github.com/daVinciBot1495/halite-3/internal/storage"
)

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional training config file (yaml/json/toml)")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	games := fs.Int("games", 0, "number of self-play games")
	turns := fs.Int("turns", 0, "turns per game")
	ships := fs.Int("ships", 0, "fleet size (bounds the context pool)")
	width := fs.Int("width", 0, "grid width")
	height := fs.Int("height", 0, "grid height")
	haliteMax := fs.Int("halite-max", 0, "maximum cell halite")
	seed := fs.Int64("seed", 0, "rng seed")
	valuesPath := fs.String("values", "", "value-table snapshot path")
	learningRate := fs.Float64("learning-rate", 0, "learning rate")
	discountRate := fs.Float64("discount-rate", 0, "discount rate")
	traceDecay := fs.Float64("trace-decay", 0, "eligibility trace decay (0 for one-step TD)")
	explorationRate := fs.Float64("exploration-rate", 0, "exploration rate")
	terminal := fs.String("terminal", "", "terminal policy: nonzero_reward|gain|never")
	rule := fs.String("rule", "", "update rule: sarsa|q_learning")
	haliteLog := fs.String("halite-log", "", "optional per-game halite log consumable by analyze")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "halite.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	cfg, err := loadTrainConfig(*configPath)
	if err != nil {
		return err
	}
	overrideInt(setFlags, "games", &cfg.Games, *games)
	overrideInt(setFlags, "turns", &cfg.Turns, *turns)
	overrideInt(setFlags, "ships", &cfg.Ships, *ships)
	overrideInt(setFlags, "width", &cfg.Width, *width)
	overrideInt(setFlags, "height", &cfg.Height, *height)
	overrideInt(setFlags, "halite-max", &cfg.HaliteMax, *haliteMax)
	overrideInt64(setFlags, "seed", &cfg.Seed, *seed)
	overrideString(setFlags, "values", &cfg.Values, *valuesPath)
	overrideFloat(setFlags, "learning-rate", &cfg.LearningRate, *learningRate)
	overrideFloat(setFlags, "discount-rate", &cfg.DiscountRate, *discountRate)
	overrideFloat(setFlags, "trace-decay", &cfg.TraceDecay, *traceDecay)
	overrideFloat(setFlags, "exploration-rate", &cfg.ExplorationRate, *explorationRate)
	overrideString(setFlags, "terminal", &cfg.Terminal, *terminal)
	overrideString(setFlags, "rule", &cfg.Rule, *rule)

	id := *runID
	if id == "" {
		id = uuid.NewString()
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	table := qvalue.NewTable()
	values, err := storage.LoadSnapshot(cfg.Values)
	if err != nil {
		return err
	}
	table.ReplaceValues(values)

	learner, err := learn.NewLearner(table, learn.Config{
		LearningRate:    cfg.LearningRate,
		DiscountRate:    cfg.DiscountRate,
		TraceDecay:      cfg.TraceDecay,
		ExplorationRate: cfg.ExplorationRate,
		Terminal:        learn.TerminalPolicy(cfg.Terminal),
		Rule:            learn.Rule(cfg.Rule),
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run_id": id,
		"games":  cfg.Games,
		"turns":  cfg.Turns,
		"ships":  cfg.Ships,
		"seed":   cfg.Seed,
	}).Info("training started")

	var haliteLines []string
	for game := 0; game < cfg.Games; game++ {
		banked, shipCount, err := playGame(ctx, learner, table, cfg, game)
		if err != nil {
			return fmt.Errorf("game %d: %w", game, err)
		}

		record := model.GameRecord{
			RunID:  id,
			Game:   game,
			Turns:  cfg.Turns,
			Ships:  shipCount,
			Halite: banked,
		}
		if err := store.SaveGameRecord(ctx, record); err != nil {
			return err
		}
		haliteLines = append(haliteLines, fmt.Sprintf("%d", banked))

		log.WithFields(logrus.Fields{
			"game":    game,
			"halite":  banked,
			"entries": table.Len(),
		}).Info("game complete")
	}

	if err := storage.WriteSnapshot(cfg.Values, table.Values()); err != nil {
		return err
	}
	if err := store.SaveValueTable(ctx, id, table.Values()); err != nil {
		return err
	}
	if *haliteLog != "" {
		data := strings.Join(haliteLines, "\n") + "\n"
		if err := os.WriteFile(*haliteLog, []byte(data), 0o644); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"run_id":  id,
		"entries": table.Len(),
		"values":  cfg.Values,
	}).Info("training finished")
	fmt.Printf("run completed run_id=%s games=%d entries=%d values=%s\n", id, cfg.Games, table.Len(), cfg.Values)
	return nil
}

// playGame runs one full game against a fresh grid. The table and the
// learner carry over between games; contexts and episode state do not.
func playGame(ctx context.Context, learner *learn.Learner, table *qvalue.Table, cfg TrainConfig, game int) (int, int, error) {
	mining, err := scape.NewMiningScape(scape.MiningConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Ships:     cfg.Ships,
		MaxTurns:  cfg.Turns,
		HaliteMax: cfg.HaliteMax,
		Seed:      cfg.Seed + int64(game),
	})
	if err != nil {
		return 0, 0, err
	}

	manager, err := fleet.NewManager(cfg.Ships)
	if err != nil {
		return 0, 0, err
	}
	driver, err := bot.NewDriver(bot.Config{
		Manager: manager,
		Learner: learner,
		Table:   table,
		Encoder: scape.NewGridEncoder(cfg.HaliteMax),
	})
	if err != nil {
		return 0, 0, err
	}

	for !mining.Done() {
		commands, err := driver.PlayTurn(ctx, mining.TurnInput())
		if err != nil {
			return 0, 0, err
		}
		if err := mining.Step(commands); err != nil {
			return 0, 0, err
		}
	}
	// The next game must not credit this game's pairs.
	learner.EndEpisode()
	return mining.Banked(), mining.ShipCount(), nil
}

func overrideInt(set map[string]bool, name string, dst *int, v int) {
	if set[name] {
		*dst = v
	}
}

func overrideInt64(set map[string]bool, name string, dst *int64, v int64) {
	if set[name] {
		*dst = v
	}
}

func overrideFloat(set map[string]bool, name string, dst *float64, v float64) {
	if set[name] {
		*dst = v
	}
}

func overrideString(set map[string]bool, name string, dst *string, v string) {
	if set[name] {
		*dst = v
	}
}
