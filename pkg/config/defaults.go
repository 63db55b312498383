package config

const (
	defaultStorageDriver = "memory"

	defaultSessionWindowSize  = 20
	defaultSessionIdleMinutes = 60

	defaultImportanceThreshold = 4
	defaultTemporalWindowDays  = 7

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "strata.records"

	defaultVectorProvider = "chromem"

	defaultEmbeddingProvider = "ollama"
	defaultEmbeddingTarget   = "http://localhost:11434"
	defaultEmbeddingModel    = "nomic-embed-text"

	defaultLifecycleWorkers   = 3
	defaultLifecycleQueueSize = 256
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Driver: defaultStorageDriver,
		},
		Session: SessionConfig{
			WindowSize:  defaultSessionWindowSize,
			IdleMinutes: defaultSessionIdleMinutes,
		},
		Compression: CompressionConfig{
			ImportanceThreshold: defaultImportanceThreshold,
			TemporalWindowDays:  defaultTemporalWindowDays,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Target:   defaultEmbeddingTarget,
			Model:    defaultEmbeddingModel,
		},
		Lifecycle: LifecycleConfig{
			Workers:   defaultLifecycleWorkers,
			QueueSize: defaultLifecycleQueueSize,
		},
	}
}
