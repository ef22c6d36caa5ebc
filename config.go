package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to start the server
type Config struct {
	Addr      string
	DBPath    string // empty disables persistence
	LogicHz   int
	PhysicsHz int
	Dev       bool
}

// DefaultConfig returns the built-in settings
func DefaultConfig() Config {
	return Config{
		Addr:      ":2222",
		LogicHz:   DefaultLogicHz,
		PhysicsHz: DefaultPhysicsHz,
	}
}

// LoadConfig layers defaults, .env files, the environment and then args.
// Variables already set in the environment win over .env values. With no
// envFiles it reads ./.env, and a missing file is not an error.
func LoadConfig(args []string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("arena-server", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file for round history (empty disables)")
	flags.IntVar(&cfg.LogicHz, "logic-hz", cfg.LogicHz, "logic ticks (input + broadcast) per second")
	flags.IntVar(&cfg.PhysicsHz, "physics-hz", cfg.PhysicsHz, "physics ticks per second")
	flags.BoolVar(&cfg.Dev, "dev", cfg.Dev, "human-readable debug logging")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ARENA_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup("ARENA_DB"); ok {
		c.DBPath = v
	}
	for _, e := range []struct {
		key string
		dst *int
	}{
		{"ARENA_LOGIC_HZ", &c.LogicHz},
		{"ARENA_PHYSICS_HZ", &c.PhysicsHz},
	} {
		v, ok := lookup(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}
	if v, ok := lookup("ARENA_DEV"); ok && v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ARENA_DEV: %w", err)
		}
		c.Dev = dev
	}
	return nil
}

// Validate rejects settings the loops cannot run with
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.LogicHz <= 0 || c.PhysicsHz <= 0 {
		return fmt.Errorf("tick rates must be positive (logic=%d physics=%d)", c.LogicHz, c.PhysicsHz)
	}
	return nil
}
