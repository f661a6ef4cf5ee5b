package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// TrainConfig collects every training knob. Values come from defaults,
// then an optional config file, then explicitly set flags, in that
// order of precedence.
type TrainConfig struct {
	Games     int    `mapstructure:"games"`
	Turns     int    `mapstructure:"turns"`
	Ships     int    `mapstructure:"ships"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	HaliteMax int    `mapstructure:"halite_max"`
	Seed      int64  `mapstructure:"seed"`
	Values    string `mapstructure:"values"`

	LearningRate    float64 `mapstructure:"learning_rate"`
	DiscountRate    float64 `mapstructure:"discount_rate"`
	TraceDecay      float64 `mapstructure:"trace_decay"`
	ExplorationRate float64 `mapstructure:"exploration_rate"`
	Terminal        string  `mapstructure:"terminal"`
	Rule            string  `mapstructure:"rule"`
}

func defaultTrainConfig() TrainConfig {
	return TrainConfig{
		Games:           100,
		Turns:           200,
		Ships:           4,
		Width:           16,
		Height:          16,
		HaliteMax:       1000,
		Seed:            1,
		Values:          "values.txt",
		LearningRate:    0.1,
		DiscountRate:    0.9,
		TraceDecay:      0.9,
		ExplorationRate: 0.1,
		Terminal:        "nonzero_reward",
		Rule:            "sarsa",
	}
}

// loadTrainConfig reads a config file into the defaults. An empty path
// returns the defaults untouched.
func loadTrainConfig(path string) (TrainConfig, error) {
	cfg := defaultTrainConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	setDefaults(v, cfg)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return TrainConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return TrainConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// setDefaults keeps keys the file omits at their built-in values.
func setDefaults(v *viper.Viper, cfg TrainConfig) {
	v.SetDefault("games", cfg.Games)
	v.SetDefault("turns", cfg.Turns)
	v.SetDefault("ships", cfg.Ships)
	v.SetDefault("width", cfg.Width)
	v.SetDefault("height", cfg.Height)
	v.SetDefault("halite_max", cfg.HaliteMax)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("values", cfg.Values)
	v.SetDefault("learning_rate", cfg.LearningRate)
	v.SetDefault("discount_rate", cfg.DiscountRate)
	v.SetDefault("trace_decay", cfg.TraceDecay)
	v.SetDefault("exploration_rate", cfg.ExplorationRate)
	v.SetDefault("terminal", cfg.Terminal)
	v.SetDefault("rule", cfg.Rule)
}
