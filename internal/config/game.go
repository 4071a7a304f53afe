package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/joho/godotenv"
	"github.com/tomz197/turbulence/internal/game"
)

// DotEnvFile is read by LoadDotEnv when present.
const DotEnvFile = ".env"

// Environment variables overriding game.DefaultConfig.
const (
	EnvSeed          = "TURB_SEED"
	EnvTickRate      = "TURB_TICK_RATE"
	EnvGravity       = "TURB_GRAVITY"
	EnvThrust        = "TURB_THRUST"
	EnvDamping       = "TURB_DAMPING"
	EnvMaxSpeed      = "TURB_MAX_SPEED"
	EnvBeatWindow    = "TURB_BEAT_WINDOW"
	EnvInitialBPM    = "TURB_INITIAL_BPM"
	EnvMaxBPM        = "TURB_MAX_BPM"
	EnvTurbHold      = "TURB_HOLD_TICKS"
	EnvHazardPenalty = "TURB_HAZARD_PENALTY"
	EnvSpawnInterval = "TURB_SPAWN_INTERVAL"
	EnvZoneSpeed     = "TURB_ZONE_SPEED"
	EnvResetDelay    = "TURB_RESET_DELAY"
	EnvPromptDelay   = "TURB_PROMPT_DELAY"
)

// LoadDotEnv reads DotEnvFile into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", DotEnvFile, err)
	}
	return nil
}

// Load builds the game configuration from defaults and the environment.
// seed is used when TURB_SEED is unset.
func Load(seed int64) (game.Config, error) {
	if err := LoadDotEnv(); err != nil {
		return game.Config{}, err
	}
	cfg := game.DefaultConfig()
	cfg.Seed = seed

	var errs []error
	setInt := func(dst *int, key string) {
		v, err := GetEnvInt(key, *dst)
		errs = append(errs, err)
		*dst = v
	}
	setFloat := func(dst *float64, key string) {
		v, err := GetEnvFloat(key, *dst)
		errs = append(errs, err)
		*dst = v
	}
	setDelay := func(dst *int, key string) {
		// Delays are given as durations and rounded to ticks. Unset delays
		// keep their tick counts.
		if GetEnv(key, "") == "" {
			return
		}
		d, err := GetEnvDuration(key, 0)
		errs = append(errs, err)
		if err == nil {
			*dst = int(math.Round(d.Seconds() * float64(cfg.TickRate)))
		}
	}

	seedVal, err := GetEnvInt64(EnvSeed, cfg.Seed)
	errs = append(errs, err)
	cfg.Seed = seedVal

	setInt(&cfg.TickRate, EnvTickRate)
	setFloat(&cfg.Gravity, EnvGravity)
	setFloat(&cfg.Thrust, EnvThrust)
	setFloat(&cfg.Damping, EnvDamping)
	setFloat(&cfg.MaxSpeed, EnvMaxSpeed)
	setFloat(&cfg.BeatWindow, EnvBeatWindow)
	setInt(&cfg.InitialBPM, EnvInitialBPM)
	setInt(&cfg.MaxBPM, EnvMaxBPM)
	setInt(&cfg.TurbulenceHold, EnvTurbHold)
	setFloat(&cfg.HazardPenalty, EnvHazardPenalty)
	setInt(&cfg.SpawnInterval, EnvSpawnInterval)
	setFloat(&cfg.ZoneSpeed, EnvZoneSpeed)
	setDelay(&cfg.ResetDelay, EnvResetDelay)
	setDelay(&cfg.NamePromptDelay, EnvPromptDelay)

	if err := errors.Join(errs...); err != nil {
		return game.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}
