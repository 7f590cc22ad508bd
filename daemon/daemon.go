package daemon

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/console"
	"github.com/ebonhold/worldcore/monitoring"
	"github.com/ebonhold/worldcore/store"
	"github.com/ebonhold/worldcore/watchdog"
	"github.com/ebonhold/worldcore/world"
)

// A Daemon is one assembled world-server process: store, world, watchdog,
// management API, and console.
type Daemon struct {
	cfg Config
	log *zap.Logger

	store    *store.Store
	world    *world.World
	watchdog *watchdog.Watchdog
	monitor  *monitoring.Monitor
	console  *console.Server

	stopCh   chan struct{}
	stopOnce sync.Once
}

// World returns the daemon's world.
func (d *Daemon) World() *world.World {
	return d.world
}

// Store returns the daemon's store.
func (d *Daemon) Store() *store.Store {
	return d.store
}

// Monitor returns the management API server.
func (d *Daemon) Monitor() *monitoring.Monitor {
	return d.monitor
}

// Console returns the remote console server, or nil when disabled.
func (d *Daemon) Console() *console.Server {
	return d.console
}

// RequestShutdown asks a running daemon to stop. Safe to call from any
// goroutine, any number of times.
func (d *Daemon) RequestShutdown() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Run starts every subsystem and blocks until the context is cancelled, a
// termination signal arrives, or a shutdown is requested through the
// console or the management API. It then tears the daemon down in reverse
// order and returns.
func (d *Daemon) Run(ctx context.Context) error {
	// The offline flag stays raised from a crashed previous run; raise it
	// again before startup so the realm only reads online once the world
	// actually is.
	if err := d.store.SetRealmOffline(); err != nil {
		return err
	}

	d.world.Start()
	d.watchdog.Start()

	if err := d.monitor.StartServer(); err != nil {
		d.world.Stop()
		return err
	}

	if d.console != nil {
		if err := d.console.Start(); err != nil {
			d.monitor.Close()
			d.world.Stop()
			return err
		}
	}

	if err := d.store.SetRealmOnline(); err != nil {
		d.log.Error("cannot mark realm online", zap.Error(err))
	}

	d.log.Info("world daemon ready",
		zap.Int("realm_id", d.cfg.RealmID),
		zap.String("run_id", d.world.RunID()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		d.log.Info("context cancelled")
	case sig := <-sigCh:
		d.log.Info("termination signal", zap.String("signal", sig.String()))
	case <-d.stopCh:
		d.log.Info("shutdown requested")
	}

	return d.shutdown()
}

func (d *Daemon) shutdown() error {
	if d.console != nil {
		d.console.Close()
	}
	d.monitor.Close()
	d.watchdog.Stop()
	d.world.Stop()

	if err := d.store.SetRealmOffline(); err != nil {
		d.log.Error("cannot mark realm offline", zap.Error(err))
	}

	err := d.store.SetWorldState("last_shutdown",
		strconv.FormatInt(time.Now().Unix(), 10))
	if err != nil {
		d.log.Error("cannot record shutdown time", zap.Error(err))
	}

	d.log.Info("world daemon stopped")

	return d.store.Close()
}
