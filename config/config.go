// Package config loads arena settings from defaults, an optional YAML file
// and DMAG_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"dmag/searcher"

	"github.com/spf13/viper"
)

const EnvPrefix = "DMAG"

type Config struct {
	Iterations  int     `mapstructure:"iterations"`
	Exploration float64 `mapstructure:"exploration"`
	Regime      string  `mapstructure:"regime"`
	JointLimit  int     `mapstructure:"joint_limit"`
	ExpandAll   bool    `mapstructure:"expand_all"`
	Cutoff      int     `mapstructure:"cutoff"`
	Opponent    string  `mapstructure:"opponent"` // random or mcts
	Seed        uint64  `mapstructure:"seed"`
	Games       int     `mapstructure:"games"`
	Players     int     `mapstructure:"players"`
	HandSize    int     `mapstructure:"hand_size"`
	Eras        int     `mapstructure:"eras"`
	MaxTurns    int     `mapstructure:"max_turns"`
	OutputDir   string  `mapstructure:"output_dir"`
	LogLevel    string  `mapstructure:"log_level"`
	MetricsAddr string  `mapstructure:"metrics_addr"` // Prometheus is not served when empty
}

var defaults = map[string]any{
	"iterations":   1000,
	"exploration":  searcher.DefaultExploration,
	"regime":       "joint",
	"joint_limit":  searcher.DefaultJointLimit,
	"expand_all":   false,
	"cutoff":       0,
	"opponent":     "random",
	"seed":         1,
	"games":        10,
	"players":      3,
	"hand_size":    4,
	"eras":         3,
	"max_turns":    1000,
	"output_dir":   "results",
	"log_level":    "info",
	"metrics_addr": "",
}

// New returns a viper instance carrying the defaults and the environment
// bindings. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when not empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	var cfg Config
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Iterations <= 0 {
		errs = append(errs, errors.New("iterations must be positive"))
	}
	if c.Exploration < 0 {
		errs = append(errs, errors.New("exploration must not be negative"))
	}
	if _, err := searcher.ParseRegime(c.Regime); err != nil {
		errs = append(errs, err)
	}
	if c.JointLimit <= 0 {
		errs = append(errs, errors.New("joint_limit must be positive"))
	}
	if c.Cutoff < 0 {
		errs = append(errs, errors.New("cutoff must not be negative"))
	}
	if c.Opponent != "random" && c.Opponent != "mcts" {
		errs = append(errs, fmt.Errorf("unknown opponent %q", c.Opponent))
	}
	if c.Games <= 0 {
		errs = append(errs, errors.New("games must be positive"))
	}
	if c.Players < 2 {
		errs = append(errs, errors.New("need at least two players"))
	}
	if c.HandSize <= 0 || c.Eras <= 0 {
		errs = append(errs, errors.New("hand_size and eras must be positive"))
	}
	if c.MaxTurns <= 0 {
		errs = append(errs, errors.New("max_turns must be positive"))
	}
	return errors.Join(errs...)
}
