package config

import (
	"os"
	"path/filepath"
	"testing"

	"dmag/searcher"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("using defaults", func(t *testing.T) {
		cfg, err := Load(New(), "")
		require.NoError(t, err)

		require.Equal(t, 1000, cfg.Iterations)
		require.Equal(t, searcher.DefaultExploration, cfg.Exploration)
		require.Equal(t, "joint", cfg.Regime)
		require.Equal(t, searcher.DefaultJointLimit, cfg.JointLimit)
		require.Equal(t, "random", cfg.Opponent)
		require.Equal(t, uint64(1), cfg.Seed)
		require.Empty(t, cfg.MetricsAddr)
	})

	t.Run("reading a YAML file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "arena.yaml")
		content := "iterations: 250\nregime: single\nexpand_all: true\nplayers: 4\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(New(), path)
		require.NoError(t, err)
		require.Equal(t, 250, cfg.Iterations)
		require.Equal(t, "single", cfg.Regime)
		require.True(t, cfg.ExpandAll)
		require.Equal(t, 4, cfg.Players)
		require.Equal(t, 10, cfg.Games, "Should keep defaults for missing keys")
	})

	t.Run("overriding with the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "arena.yaml")
		require.NoError(t, os.WriteFile(path, []byte("iterations: 250\n"), 0644))
		t.Setenv("DMAG_ITERATIONS", "75")
		t.Setenv("DMAG_JOINT_LIMIT", "2")

		cfg, err := Load(New(), path)
		require.NoError(t, err)
		require.Equal(t, 75, cfg.Iterations)
		require.Equal(t, 2, cfg.JointLimit)
	})

	t.Run("failing on a missing file", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("failing validation", func(t *testing.T) {
		t.Setenv("DMAG_REGIME", "mixed")

		_, err := Load(New(), "")
		require.ErrorContains(t, err, "unknown regime")
	})
}

func TestValidate(t *testing.T) {
	valid, err := Load(New(), "")
	require.NoError(t, err)

	for name, mutate := range map[string]func(*Config){
		"zero iterations":      func(c *Config) { c.Iterations = 0 },
		"negative exploration": func(c *Config) { c.Exploration = -1 },
		"zero joint limit":     func(c *Config) { c.JointLimit = 0 },
		"negative cutoff":      func(c *Config) { c.Cutoff = -1 },
		"unknown opponent":     func(c *Config) { c.Opponent = "greedy" },
		"zero games":           func(c *Config) { c.Games = 0 },
		"single player":        func(c *Config) { c.Players = 1 },
		"empty hands":          func(c *Config) { c.HandSize = 0 },
		"zero max turns":       func(c *Config) { c.MaxTurns = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
