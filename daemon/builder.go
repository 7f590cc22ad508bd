package daemon

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/console"
	"github.com/ebonhold/worldcore/monitoring"
	"github.com/ebonhold/worldcore/store"
	"github.com/ebonhold/worldcore/watchdog"
	"github.com/ebonhold/worldcore/world"
)

// Builder can be used to build a Daemon.
type Builder struct {
	cfg         Config
	logger      *zap.Logger
	openBrowser bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConfig sets the daemon configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets the daemon logger. Without one, Build creates a logger
// from the configuration.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.logger = l
	return b
}

// WithBrowserOnStart makes the daemon open the management API status page
// at startup.
func (b Builder) WithBrowserOnStart() Builder {
	b.openBrowser = true
	return b
}

// Build wires the store, world, watchdog, management API, and console into
// a Daemon ready to Run.
func (b Builder) Build() (*Daemon, error) {
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(b.cfg); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(b.cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", b.cfg.DataDir)
	}

	st, err := store.Open(b.cfg.DataDir, b.cfg.RealmID)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:    b.cfg,
		log:    logger,
		store:  st,
		stopCh: make(chan struct{}),
	}

	d.watchdog = watchdog.New(b.cfg.MaxStuckTime, logger)

	d.world = world.New(world.Config{
		RealmID:        b.cfg.RealmID,
		Shards:         b.cfg.Shards,
		TickInterval:   b.cfg.TickInterval,
		SessionTimeout: b.cfg.SessionTimeout,
		UptimePeriod:   b.cfg.UptimePeriod,
	}, st, d.watchdog.Beat, logger)

	d.monitor = monitoring.NewMonitor(d.world, st, d.RequestShutdown, logger)
	if b.cfg.MonitorPort > 0 {
		d.monitor.WithPortNumber(b.cfg.MonitorPort)
	}
	if b.openBrowser {
		d.monitor.WithBrowserOnStart()
	}

	if b.cfg.ConsoleEnabled {
		d.console = console.NewServer(
			b.cfg.ConsoleAddr, d.world, st, d.RequestShutdown, logger)
	}

	return d, nil
}
