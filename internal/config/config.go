// Package config provides Viper-based configuration loading for roguehammer.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/roguehammer/internal/game/tuning"
)

// DatabaseConfig holds PostgreSQL connection settings for run history.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig controls headless runs.
type SimulationConfig struct {
	// Seed makes a run reproducible. Zero draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// TickRate is the number of frames per simulated second.
	TickRate int `mapstructure:"tick_rate"`
	// MaxFrames aborts a run after this many frames. Zero means no budget.
	MaxFrames int `mapstructure:"max_frames"`
	// Layout names a built-in layout.
	Layout string `mapstructure:"layout"`
	// LayoutFile, when set, is loaded instead of the built-in layout.
	LayoutFile string `mapstructure:"layout_file"`
	// ScriptDir holds optional <layout>.lua hook scripts.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// ItemFile, when set, replaces the built-in item catalogue.
	ItemFile string `mapstructure:"item_file"`
	// Realtime paces frames by the wall clock.
	Realtime bool `mapstructure:"realtime"`
	// RecordRuns stores each finished run in PostgreSQL.
	RecordRuns bool `mapstructure:"record_runs"`
}

// Step returns the simulated seconds per frame.
//
// Precondition: TickRate > 0.
func (s SimulationConfig) Step() float64 {
	return 1 / float64(s.TickRate)
}

// GameplayConfig holds the world dimensions and difficulty knobs.
type GameplayConfig struct {
	TileSize         float64 `mapstructure:"tile_size"`
	RoomWidth        float64 `mapstructure:"room_width"`
	RoomHeight       float64 `mapstructure:"room_height"`
	WallThickness    float64 `mapstructure:"wall_thickness"`
	TopMargin        float64 `mapstructure:"top_margin"`
	NormalMaxEnemies int     `mapstructure:"normal_max_enemies"`
	PlayerDeathDelay float64 `mapstructure:"player_death_delay"`
}

// Dimensions converts the section into game tuning.
func (g GameplayConfig) Dimensions() tuning.Dimensions {
	return tuning.Dimensions{
		TileSize:         g.TileSize,
		RoomWidth:        g.RoomWidth,
		RoomHeight:       g.RoomHeight,
		WallThickness:    g.WallThickness,
		TopMargin:        g.TopMargin,
		NormalMaxEnemies: g.NormalMaxEnemies,
		PlayerDeathDelay: g.PlayerDeathDelay,
	}
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Gameplay   GameplayConfig   `mapstructure:"gameplay"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error joining
// every violation.
func (c Config) Validate() error {
	err := errors.Join(
		validateLogging(c.Logging),
		validateSimulation(c.Simulation),
		validateGameplay(c.Gameplay),
	)
	if c.Simulation.RecordRuns {
		err = errors.Join(err, validateDatabase(c.Database))
	}
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []error
	if s.TickRate < 1 || s.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be 1-1000, got %d", s.TickRate))
	}
	if s.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("simulation.max_frames must be >= 0, got %d", s.MaxFrames))
	}
	if s.Layout == "" && s.LayoutFile == "" {
		errs = append(errs, errors.New("one of simulation.layout or simulation.layout_file must be set"))
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Errorf("simulation.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	return errors.Join(errs...)
}

func validateGameplay(g GameplayConfig) error {
	if err := g.Dimensions().Validate(); err != nil {
		return fmt.Errorf("gameplay: %w", err)
	}
	return nil
}

// Validate checks the database section on its own, for tools that only
// need a connection.
func (d DatabaseConfig) Validate() error {
	return validateDatabase(d)
}

func validateDatabase(d DatabaseConfig) error {
	var errs []error
	if d.Host == "" {
		errs = append(errs, errors.New("database.host must not be empty"))
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, errors.New("database.user must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("database.name must not be empty"))
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Errorf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Errorf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Errorf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, errors.New("database.min_conns must not exceed database.max_conns"))
	}
	return errors.Join(errs...)
}

// New returns a Viper instance with defaults and ROGUEHAMMER_ environment
// overrides installed.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ROGUEHAMMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path uses defaults
// and the environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.max_frames", 60*60*10)
	v.SetDefault("simulation.layout", "layout1")
	v.SetDefault("simulation.layout_file", "")
	v.SetDefault("simulation.script_dir", "")
	v.SetDefault("simulation.instruction_limit", 0)
	v.SetDefault("simulation.item_file", "")
	v.SetDefault("simulation.realtime", false)
	v.SetDefault("simulation.record_runs", false)

	d := tuning.Default()
	v.SetDefault("gameplay.tile_size", d.TileSize)
	v.SetDefault("gameplay.room_width", d.RoomWidth)
	v.SetDefault("gameplay.room_height", d.RoomHeight)
	v.SetDefault("gameplay.wall_thickness", d.WallThickness)
	v.SetDefault("gameplay.top_margin", d.TopMargin)
	v.SetDefault("gameplay.normal_max_enemies", d.NormalMaxEnemies)
	v.SetDefault("gameplay.player_death_delay", d.PlayerDeathDelay)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "roguehammer")
	v.SetDefault("database.password", "roguehammer")
	v.SetDefault("database.name", "roguehammer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
