package retention

import (
	"context"
	"time"

	"github.com/vidgrab/vidgrab/internal/store"
	"github.com/vidgrab/vidgrab/pkg/logger"
)

var log = logger.Get("Retention")

type (
	Config struct {
		// Maximum age an artifact may reach before it is reclaimed.
		TTL time.Duration

		// How often the store is scanned for expired artifacts.
		Interval time.Duration
	}

	// artifactStore is the narrow slice of the store the sweeper
	// needs; it lets tests inject deletion failures.
	artifactStore interface {
		ListAll() ([]store.Entry, error)
		Delete(name string) error
	}

	// Sweeper periodically scans the artifact store and deletes any
	// artifact older than the configured TTL. It is the only writer
	// that removes files; request handlers only ever create them
	// under fresh names, so the sole race is delete-vs-read on an
	// expired name, which the store's idempotent delete absorbs.
	Sweeper struct {
		config Config
		store  artifactStore
	}
)

func New(config Config, store artifactStore) *Sweeper {
	return &Sweeper{config: config, store: store}
}

// Run sweeps once immediately and then on every interval tick until
// the provided context is cancelled. It only ever returns nil; no
// per-cycle fault is allowed to take the sweeper down with it.
func (sweeper *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(sweeper.config.Interval)
	defer ticker.Stop()

	sweeper.SweepOnce(time.Now())

	for {
		select {
		case <-ticker.C:
			sweeper.SweepOnce(time.Now())
		case <-ctx.Done():
			return nil
		}
	}
}

// SweepOnce performs a single sweep cycle against the given current
// time. A failure to inspect or delete one artifact is logged and
// the cycle continues with the next.
func (sweeper *Sweeper) SweepOnce(now time.Time) {
	entries, err := sweeper.store.ListAll()
	if err != nil {
		log.Emit(logger.ERROR, "sweep skipped, artifact listing failed: %s\n", err.Error())
		return
	}

	reclaimed := 0
	for _, entry := range entries {
		if now.Sub(entry.ModTime) <= sweeper.config.TTL {
			continue
		}

		if err := sweeper.store.Delete(entry.Name); err != nil {
			log.Emit(logger.ERROR, "failed to reclaim expired artifact '%s': %s\n", entry.Name, err.Error())
			continue
		}

		reclaimed++
	}

	if reclaimed > 0 {
		log.Emit(logger.REMOVE, "reclaimed %d expired artifact(s)\n", reclaimed)
	}
}
