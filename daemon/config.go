// Package daemon assembles the worldcore subsystems into one runnable
// world-server process.
package daemon

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the daemon's environment-driven configuration.
type Config struct {
	RealmID int    `env:"WORLDCORE_REALM_ID" envDefault:"1"`
	DataDir string `env:"WORLDCORE_DATA_DIR" envDefault:"data"`

	Shards         int           `env:"WORLDCORE_SHARDS" envDefault:"1"`
	TickInterval   time.Duration `env:"WORLDCORE_TICK_INTERVAL" envDefault:"50ms"`
	SessionTimeout time.Duration `env:"WORLDCORE_SESSION_TIMEOUT" envDefault:"5m"`
	UptimePeriod   time.Duration `env:"WORLDCORE_UPTIME_PERIOD" envDefault:"1m"`

	ConsoleEnabled bool   `env:"WORLDCORE_CONSOLE_ENABLED" envDefault:"true"`
	ConsoleAddr    string `env:"WORLDCORE_CONSOLE_ADDR" envDefault:"127.0.0.1:3443"`
	MonitorPort    int    `env:"WORLDCORE_MONITOR_PORT" envDefault:"0"`

	// MaxStuckTime of zero disables the watchdog.
	MaxStuckTime time.Duration `env:"WORLDCORE_MAX_STUCK_TIME" envDefault:"0"`

	LogFile  string `env:"WORLDCORE_LOG_FILE"`
	LogLevel string `env:"WORLDCORE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads a .env-style file (the process environment wins over
// file entries) and parses the result. An empty path loads ./.env when
// present and is not an error when it is missing.
func LoadConfig(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return Config{}, errors.Wrapf(err, "load config %s", path)
		}
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Shards < 1 {
		return errors.Errorf("shard count must be at least 1, got %d", c.Shards)
	}
	if c.TickInterval <= 0 {
		return errors.Errorf("tick interval must be positive, got %s",
			c.TickInterval)
	}
	if c.ConsoleEnabled && c.ConsoleAddr == "" {
		return errors.New("console enabled without a console address")
	}

	return nil
}
