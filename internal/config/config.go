package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from YAML with
// environment-variable overrides.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logger    LoggerConfig    `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Mode     string `yaml:"mode"`
	BasePath string `yaml:"base_path"`
}

type StorageConfig struct {
	// DataDir holds boards/, backups/, and archives/ subdirectories.
	DataDir string `yaml:"data_dir"`
	// DefaultBoard is the board resolved when load is called without an
	// identifier; it is bootstrapped from the packaged template if absent.
	DefaultBoard string `yaml:"default_board"`
	// DoneColumn names the terminal column that drives completed_at.
	DoneColumn string `yaml:"done_column"`
	// BackupRetention keeps the newest N backups per board.
	BackupRetention int `yaml:"backup_retention"`
}

type RateLimitConfig struct {
	WindowMS      int `yaml:"window_ms"`
	ReadLimit     int `yaml:"read_limit"`
	WriteLimit    int `yaml:"write_limit"`
	MaxClients    int `yaml:"max_clients"`
	SweepInterval int `yaml:"sweep_interval_seconds"`
}

// Window returns the sliding window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwt_secret"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads the config file at path, falling back to defaults when the
// file is absent, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     8000,
			Mode:     "debug",
			BasePath: "/api",
		},
		Storage: StorageConfig{
			DataDir:         "data",
			DefaultBoard:    "default",
			DoneColumn:      "Done",
			BackupRetention: 10,
		},
		RateLimit: RateLimitConfig{
			WindowMS:      60000,
			ReadLimit:     100,
			WriteLimit:    30,
			MaxClients:    1000,
			SweepInterval: 60,
		},
		Logger: LoggerConfig{Level: "info"},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if dir := os.Getenv("TASKBOARD_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if board := os.Getenv("TASKBOARD_DEFAULT_BOARD"); board != "" {
		cfg.Storage.DefaultBoard = board
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logger.Level = level
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	return cfg, nil
}
