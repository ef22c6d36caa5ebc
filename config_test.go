package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ":2222", cfg.Addr)
	assert.Equal(t, 30, cfg.LogicHz)
	assert.Equal(t, 60, cfg.PhysicsHz)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadConfigEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ARENA_ADDR", ":9999")
	t.Setenv("ARENA_LOGIC_HZ", "20")
	t.Setenv("ARENA_DB", "/tmp/rounds.db")
	t.Setenv("ARENA_DEV", "true")

	cfg, err := LoadConfig(nil, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 20, cfg.LogicHz)
	assert.Equal(t, 60, cfg.PhysicsHz)
	assert.Equal(t, "/tmp/rounds.db", cfg.DBPath)
	assert.True(t, cfg.Dev)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ARENA_ADDR", ":9999")
	t.Setenv("ARENA_PHYSICS_HZ", "120")

	cfg, err := LoadConfig([]string{"-addr", ":7777", "-physics-hz", "90"}, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, 90, cfg.PhysicsHz)
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.env")
	require.NoError(t, os.WriteFile(path, []byte("ARENA_PHYSICS_HZ=75\nARENA_LOGIC_HZ=10\n"), 0o644))

	// Real environment wins over the file
	t.Setenv("ARENA_LOGIC_HZ", "25")
	t.Cleanup(func() { os.Unsetenv("ARENA_PHYSICS_HZ") })

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.PhysicsHz)
	assert.Equal(t, 25, cfg.LogicHz)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("ARENA_LOGIC_HZ", "fast")
		_, err := LoadConfig(nil, noEnvFile(t))
		assert.ErrorContains(t, err, "ARENA_LOGIC_HZ")
	})
	t.Run("rate", func(t *testing.T) {
		_, err := LoadConfig([]string{"-logic-hz", "0"}, noEnvFile(t))
		assert.Error(t, err)
	})
	t.Run("flag", func(t *testing.T) {
		_, err := LoadConfig([]string{"-nope"}, noEnvFile(t))
		assert.Error(t, err)
	})
	t.Run("dev", func(t *testing.T) {
		t.Setenv("ARENA_DEV", "maybe")
		_, err := LoadConfig(nil, noEnvFile(t))
		assert.Error(t, err)
	})
}
