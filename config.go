package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	GCP    GCPConfig    `yaml:"gcp"`
	Puzzle PuzzleConfig `yaml:"puzzle"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	GenerateRate    int           `yaml:"generate_rate"    env:"SERVER_GENERATE_RATE"    env-default:"5"`
	MoveRate        int           `yaml:"move_rate"        env:"SERVER_MOVE_RATE"        env-default:"60"`
}

// GCPConfig selects the Gemini backend. An empty project disables generation.
type GCPConfig struct {
	ProjectID string `yaml:"project_id" env:"GCP_PROJECT_ID"`
	Region    string `yaml:"region"     env:"GCP_REGION"     env-default:"europe-west1"`
	Model     string `yaml:"model"      env:"GEMINI_MODEL"   env-default:"gemini-2.5-flash"`
}

// PuzzleConfig holds the default grid sizes.
type PuzzleConfig struct {
	WordSearchSize int `yaml:"word_search_size" env:"PUZZLE_WORD_SEARCH_SIZE" env-default:"12"`
	CrosswordRows  int `yaml:"crossword_rows"   env:"PUZZLE_CROSSWORD_ROWS"   env-default:"12"`
	CrosswordCols  int `yaml:"crossword_cols"   env:"PUZZLE_CROSSWORD_COLS"   env-default:"12"`
	TashchetzRows  int `yaml:"tashchetz_rows"   env:"PUZZLE_TASHCHETZ_ROWS"   env-default:"14"`
	TashchetzCols  int `yaml:"tashchetz_cols"   env:"PUZZLE_TASHCHETZ_COLS"   env-default:"11"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LoadConfig reads configuration from a YAML file and environment variables.
// The file is CONFIG_PATH, or ./config.yaml when present.
func LoadConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges after loading.
func (c *Config) Validate() error {
	p := c.Puzzle
	if p.WordSearchSize < 2 {
		return fmt.Errorf("puzzle.word_search_size must be >= 2 (got %d)", p.WordSearchSize)
	}
	if p.CrosswordRows < 2 || p.CrosswordCols < 2 {
		return fmt.Errorf("puzzle crossword size must be at least 2x2 (got %dx%d)", p.CrosswordRows, p.CrosswordCols)
	}
	if p.TashchetzRows < 4 || p.TashchetzCols < 3 {
		return fmt.Errorf("puzzle tashchetz size must be at least 4x3 (got %dx%d)", p.TashchetzRows, p.TashchetzCols)
	}
	if c.Server.GenerateRate <= 0 || c.Server.MoveRate <= 0 {
		return fmt.Errorf("server rates must be > 0")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}
	return nil
}
