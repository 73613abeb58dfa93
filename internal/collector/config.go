package collector

import "time"

// Config holds aggregation and snapshot push settings.
type Config struct {
	ChunkSize     int           `mapstructure:"chunk_size"`
	PushInterval  time.Duration `mapstructure:"push_interval"`
	HistoryWindow time.Duration `mapstructure:"history_window"`
}

// DefaultConfig returns the collector defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     DefaultChunkSize,
		PushInterval:  time.Minute,
		HistoryWindow: DefaultHistoryWindow,
	}
}
