package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent strata configuration stored as config.toml
// in the .strata/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	Session     SessionConfig     `toml:"session"`
	Compression CompressionConfig `toml:"compression"`
	Events      EventsConfig      `toml:"events"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Lifecycle   LifecycleConfig   `toml:"lifecycle"`
}

// StorageConfig holds the persisted-record sink settings.
type StorageConfig struct {
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// SessionConfig holds session-tier settings.
type SessionConfig struct {
	WindowSize  uint `toml:"window_size,omitempty"`
	IdleMinutes uint `toml:"idle_minutes,omitempty"`
}

// CompressionConfig holds compression engine tuning.
type CompressionConfig struct {
	ImportanceThreshold uint `toml:"importance_threshold,omitempty"`
	TemporalWindowDays  uint `toml:"temporal_window_days,omitempty"`
}

// EventsConfig holds lifecycle event publishing settings.
// Brokers is a comma-separated list of Kafka broker addresses.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Enabled  bool   `toml:"enabled,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
}

// LifecycleConfig holds background maintenance pool settings.
type LifecycleConfig struct {
	Workers   uint `toml:"workers,omitempty"`
	QueueSize uint `toml:"queue_size,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func uintKey(get func(c *Config) uint, set func(c *Config, n uint)) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if get(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(get(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid numeric value %q: %w", v, err)
			}
			set(c, uint(n))
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error { c.Storage.Driver = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_url": {
		get: func(c *Config) string { return c.Storage.PostgresURL },
		set: func(c *Config, v string) error { c.Storage.PostgresURL = v; return nil },
	},
	"session.window_size": uintKey(
		func(c *Config) uint { return c.Session.WindowSize },
		func(c *Config, n uint) { c.Session.WindowSize = n },
	),
	"session.idle_minutes": uintKey(
		func(c *Config) uint { return c.Session.IdleMinutes },
		func(c *Config, n uint) { c.Session.IdleMinutes = n },
	),
	"compression.importance_threshold": uintKey(
		func(c *Config) uint { return c.Compression.ImportanceThreshold },
		func(c *Config, n uint) { c.Compression.ImportanceThreshold = n },
	),
	"compression.temporal_window_days": uintKey(
		func(c *Config) uint { return c.Compression.TemporalWindowDays },
		func(c *Config, n uint) { c.Compression.TemporalWindowDays = n },
	),
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.VectorStore.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for vector_store.enabled: %w", err)
			}
			c.VectorStore.Enabled = b
			return nil
		},
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"lifecycle.workers": uintKey(
		func(c *Config) uint { return c.Lifecycle.Workers },
		func(c *Config, n uint) { c.Lifecycle.Workers = n },
	),
	"lifecycle.queue_size": uintKey(
		func(c *Config) uint { return c.Lifecycle.QueueSize },
		func(c *Config, n uint) { c.Lifecycle.QueueSize = n },
	),
}
