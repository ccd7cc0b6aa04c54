package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog backing modes.
const (
	ModeFS       = "fs"
	ModeSnapshot = "snapshot"
	ModeSQLite   = "sqlite"
	ModeWatch    = "watch"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	DB        DBConfig        `yaml:"db"`
	Embed     EmbedConfig     `yaml:"embed"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CatalogConfig struct {
	Root       string   `yaml:"root"`
	Mode       string   `yaml:"mode"`
	Snapshot   string   `yaml:"snapshot"`
	Extensions []string `yaml:"extensions"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// EmbedConfig controls cross-frame messaging. TargetOrigin "*" lets any
// framing page receive the messages; set an origin to pin delivery.
type EmbedConfig struct {
	TargetOrigin   string        `yaml:"target_origin"`
	HeightDebounce time.Duration `yaml:"height_debounce"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Catalog: CatalogConfig{
			Root:       "public",
			Mode:       ModeFS,
			Snapshot:   "data/projects.json",
			Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		},
		DB: DBConfig{
			Path: "data/gallery.db",
		},
		Embed: EmbedConfig{
			TargetOrigin:   "*",
			HeightDebounce: 50 * time.Millisecond,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("SPG_CONFIG_PATH"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SPG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SPG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SPG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if root := os.Getenv("SPG_CATALOG_ROOT"); root != "" {
		cfg.Catalog.Root = root
	}
	if mode := os.Getenv("SPG_CATALOG_MODE"); mode != "" {
		cfg.Catalog.Mode = mode
	}
	if snapshot := os.Getenv("SPG_SNAPSHOT_PATH"); snapshot != "" {
		cfg.Catalog.Snapshot = snapshot
	}
	if dbPath := os.Getenv("SPG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if origin := os.Getenv("SPG_EMBED_TARGET_ORIGIN"); origin != "" {
		cfg.Embed.TargetOrigin = origin
	}
	if level := os.Getenv("SPG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("SPG_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if transport := os.Getenv("SPG_TRANSPORT"); transport != "" {
		cfg.Transport.Mode = transport
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays a YAML file onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Catalog.Mode {
	case ModeFS, ModeSnapshot, ModeSQLite, ModeWatch:
	default:
		return fmt.Errorf("invalid catalog mode %q", c.Catalog.Mode)
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Catalog.Root) == "" && c.Catalog.Mode != ModeSnapshot && c.Catalog.Mode != ModeSQLite {
		return fmt.Errorf("catalog root is required in %s mode", c.Catalog.Mode)
	}
	if c.Embed.HeightDebounce < 0 {
		return fmt.Errorf("invalid embed height_debounce %s", c.Embed.HeightDebounce)
	}
	return nil
}
