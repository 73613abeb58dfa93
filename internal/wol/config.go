package wol

import "time"

// Config holds Wake-on-LAN settings.
type Config struct {
	// Command is the executable that sends the magic packet. It receives the
	// MAC address as its last argument.
	Command string `mapstructure:"command"`
	// Broadcast, when set, is passed as "-i <addr>" before the MAC.
	Broadcast string        `mapstructure:"broadcast"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the defaults used when no wol section is present.
func DefaultConfig() Config {
	return Config{
		Command: "wakeonlan",
		Timeout: 8 * time.Second,
	}
}
