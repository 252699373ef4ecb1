package config

import "time"

// Config holds client configuration values.
type Config struct {
	ServerURL       string        `mapstructure:"server_url" yaml:"server_url"`
	Username        string        `mapstructure:"username" yaml:"username"`
	Room            string        `mapstructure:"room" yaml:"room"`
	Rooms           []string      `mapstructure:"rooms" yaml:"rooms"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
	SoundCommand    string        `mapstructure:"sound_command" yaml:"sound_command"`
	StatusAddr      string        `mapstructure:"status_addr" yaml:"status_addr"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults. Username
// is intentionally empty: the view prompts for it when unset. StatusAddr
// empty keeps the local status endpoint disabled.
func Default() Config {
	return Config{
		ServerURL:       "ws://localhost:8080/ws",
		Rooms:           []string{"General", "Sports", "Tech", "Music"},
		LogLevel:        "info",
		DialTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.Username != "" {
		c.Username = other.Username
	}
	if other.Room != "" {
		c.Room = other.Room
	}
	if len(other.Rooms) != 0 {
		c.Rooms = other.Rooms
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.SoundCommand != "" {
		c.SoundCommand = other.SoundCommand
	}
	if other.StatusAddr != "" {
		c.StatusAddr = other.StatusAddr
	}
	if other.DialTimeout != 0 {
		c.DialTimeout = other.DialTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
