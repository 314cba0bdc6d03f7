package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/binpack-search/internal/annealing"
	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/genetic"
	"github.com/eugenenazirov/binpack-search/internal/hillclimb"
	"github.com/eugenenazirov/binpack-search/internal/packing"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 5.0
	defaultRateLimitBurst = 10
	defaultRuns           = 3
	defaultOutputDir      = "results"
	defaultMaxStoredRuns  = 100
	defaultMaxItems       = 200
	defaultLogLevel       = "info"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	// MaxStoredRuns bounds the in-memory run history of the service.
	MaxStoredRuns int
	// MaxItems bounds the size of problems accepted over HTTP.
	MaxItems int

	// Seed of the first run; 0 picks one from the clock.
	Seed      int64
	Runs      int
	OutputDir string
	LogLevel  string

	Weights      packing.Weights
	HillClimbing hillclimb.Config
	Annealing    annealing.Config
	Genetic      genetic.Config
}

// Settings returns the search settings of the configuration.
func (c Config) Settings() engine.Settings {
	return engine.Settings{
		Weights:   c.Weights,
		HillClimb: c.HillClimbing,
		Annealing: c.Annealing,
		Genetic:   c.Genetic,
	}
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string           `yaml:"port"`
	ShutdownGracePeriod  string           `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string           `yaml:"read_header_timeout"`
	WriteTimeout         string           `yaml:"write_timeout"`
	IdleTimeout          string           `yaml:"idle_timeout"`
	EnableRequestLogging *bool            `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit    `yaml:"rate_limit"`
	MaxStoredRuns        int              `yaml:"max_stored_runs"`
	MaxItems             int              `yaml:"max_items"`
	Search               yamlSearch       `yaml:"search"`
	Weights              yamlWeights      `yaml:"weights"`
	HillClimbing         yamlHillClimbing `yaml:"hill_climbing"`
	Annealing            yamlAnnealing    `yaml:"annealing"`
	Genetic              yamlGenetic      `yaml:"genetic"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

type yamlSearch struct {
	Seed      *int64 `yaml:"seed"`
	Runs      int    `yaml:"runs"`
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
}

type yamlWeights struct {
	Overflow *float64 `yaml:"overflow"`
	Count    *float64 `yaml:"count"`
	Density  *float64 `yaml:"density"`
}

type yamlHillClimbing struct {
	MaxIterations        int  `yaml:"max_iterations"`
	MaxSideways          *int `yaml:"max_sideways"`
	Restarts             int  `yaml:"restarts"`
	IterationsPerRestart int  `yaml:"iterations_per_restart"`
	Workers              int  `yaml:"workers"`
}

type yamlAnnealing struct {
	InitialTemp      float64  `yaml:"initial_temp"`
	CoolingRate      float64  `yaml:"cooling_rate"`
	MinTemp          float64  `yaml:"min_temp"`
	NewContainerBias *float64 `yaml:"new_container_bias"`
	MaxAttempts      int      `yaml:"max_attempts"`
}

type yamlGenetic struct {
	Population       int      `yaml:"population"`
	Generations      int      `yaml:"generations"`
	MutationRate     *float64 `yaml:"mutation_rate"`
	CrossoverRate    *float64 `yaml:"crossover_rate"`
	TournamentSize   int      `yaml:"tournament_size"`
	NewContainerBias *float64 `yaml:"new_container_bias"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	Seed           *int64
	Runs           *int
	OutputDir      *string
	LogLevel       *string
	Workers        *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables
	applyEnvConfig(&cfg)

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         60 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		MaxStoredRuns:        defaultMaxStoredRuns,
		MaxItems:             defaultMaxItems,
		Runs:                 defaultRuns,
		OutputDir:            defaultOutputDir,
		LogLevel:             defaultLogLevel,
		Weights:              packing.DefaultWeights(),
		HillClimbing:         hillclimb.DefaultConfig(),
		Annealing:            annealing.DefaultConfig(),
		Genetic:              genetic.DefaultConfig(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct. Absent
// keys leave the current value in place.
func applyYAMLConfig(cfg *Config, y *yamlConfig) {
	if y.Port != "" {
		cfg.Port = y.Port
	}

	setDuration(&cfg.ShutdownGracePeriod, y.ShutdownGracePeriod)
	setDuration(&cfg.ReadHeaderTimeout, y.ReadHeaderTimeout)
	setDuration(&cfg.WriteTimeout, y.WriteTimeout)
	setDuration(&cfg.IdleTimeout, y.IdleTimeout)

	if y.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *y.EnableRequestLogging
	}
	if y.RateLimit.RPS != nil && *y.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *y.RateLimit.RPS
	}
	if y.RateLimit.Burst != nil && *y.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *y.RateLimit.Burst
	}
	setPositive(&cfg.MaxStoredRuns, y.MaxStoredRuns)
	setPositive(&cfg.MaxItems, y.MaxItems)

	if y.Search.Seed != nil {
		cfg.Seed = *y.Search.Seed
	}
	setPositive(&cfg.Runs, y.Search.Runs)
	if y.Search.OutputDir != "" {
		cfg.OutputDir = y.Search.OutputDir
	}
	if y.Search.LogLevel != "" {
		cfg.LogLevel = y.Search.LogLevel
	}

	setFloat(&cfg.Weights.Overflow, y.Weights.Overflow)
	setFloat(&cfg.Weights.Count, y.Weights.Count)
	setFloat(&cfg.Weights.Density, y.Weights.Density)

	hc := y.HillClimbing
	setPositive(&cfg.HillClimbing.MaxIterations, hc.MaxIterations)
	if hc.MaxSideways != nil {
		cfg.HillClimbing.MaxSideways = *hc.MaxSideways
	}
	setPositive(&cfg.HillClimbing.Restarts, hc.Restarts)
	setPositive(&cfg.HillClimbing.IterationsPerRestart, hc.IterationsPerRestart)
	setPositive(&cfg.HillClimbing.Workers, hc.Workers)

	sa := y.Annealing
	if sa.InitialTemp > 0 {
		cfg.Annealing.InitialTemp = sa.InitialTemp
	}
	if sa.CoolingRate > 0 {
		cfg.Annealing.CoolingRate = sa.CoolingRate
	}
	if sa.MinTemp > 0 {
		cfg.Annealing.MinTemp = sa.MinTemp
	}
	setFloat(&cfg.Annealing.NewContainerBias, sa.NewContainerBias)
	setPositive(&cfg.Annealing.MaxAttempts, sa.MaxAttempts)

	ga := y.Genetic
	setPositive(&cfg.Genetic.Population, ga.Population)
	setPositive(&cfg.Genetic.Generations, ga.Generations)
	setFloat(&cfg.Genetic.MutationRate, ga.MutationRate)
	setFloat(&cfg.Genetic.CrossoverRate, ga.CrossoverRate)
	setPositive(&cfg.Genetic.TournamentSize, ga.TournamentSize)
	setFloat(&cfg.Genetic.NewContainerBias, ga.NewContainerBias)
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if seed := strings.TrimSpace(os.Getenv("BINPACK_SEED")); seed != "" {
		if value, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Seed = value
		}
	}

	if runs := strings.TrimSpace(os.Getenv("BINPACK_RUNS")); runs != "" {
		if value, err := strconv.Atoi(runs); err == nil && value > 0 {
			cfg.Runs = value
		}
	}

	if dir := strings.TrimSpace(os.Getenv("BINPACK_OUTPUT_DIR")); dir != "" {
		cfg.OutputDir = dir
	}

	if level := strings.TrimSpace(os.Getenv("BINPACK_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}

	if overrides.Runs != nil && *overrides.Runs > 0 {
		cfg.Runs = *overrides.Runs
	}

	if overrides.OutputDir != nil && *overrides.OutputDir != "" {
		cfg.OutputDir = *overrides.OutputDir
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.Workers != nil && *overrides.Workers > 0 {
		cfg.HillClimbing.Workers = *overrides.Workers
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.Runs <= 0 {
		return fmt.Errorf("runs must be > 0")
	}
	if cfg.MaxStoredRuns <= 0 {
		return fmt.Errorf("max stored runs must be > 0")
	}
	if cfg.MaxItems <= 0 {
		return fmt.Errorf("max items must be > 0")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if err := cfg.Settings().Validate(); err != nil {
		return fmt.Errorf("search settings: %w", err)
	}
	return nil
}

func setDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

func setPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
