package workers

import (
	"context"
	"time"

	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/logger"
	"github.com/ethaan/craftbot/pkg/settings"
)

// SweeperWorker periodically drops expired cooldown claims and stale
// settings containers. Both structures stay correct without it; the sweep
// only bounds memory on long-running processes.
type SweeperWorker struct {
	cooldowns     *command.CooldownTracker
	cache         *settings.Cache
	sweepInterval time.Duration
}

func NewSweeperWorker(cooldowns *command.CooldownTracker, cache *settings.Cache) *SweeperWorker {
	return &SweeperWorker{
		cooldowns:     cooldowns,
		cache:         cache,
		sweepInterval: 10 * time.Minute,
	}
}

func (w *SweeperWorker) Name() string {
	return "sweeper"
}

func (w *SweeperWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SweeperWorker) sweep() {
	expired := w.cooldowns.Sweep()
	evicted := w.cache.EvictStale()
	if expired > 0 || evicted > 0 {
		logger.Worker("sweeper", "Dropped %d expired cooldowns, evicted %d stale containers", expired, evicted)
	}
}
