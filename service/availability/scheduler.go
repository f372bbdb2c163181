package availability

import (
	"context"
	"log/slog"
	"time"
)

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Scheduler drives the expiry sweep: once immediately on Start (to
// catch up after downtime), then on every interval tick until Stop.
// Sweeps are idempotent, so a slow sweep racing the next tick still
// converges; ticks are never queued.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	log      *slog.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(s Sweeper, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  s,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (sc *Scheduler) Start() {
	go sc.run()
}

// Stop cancels the loop and waits for a sweep in flight to finish.
func (sc *Scheduler) Stop() {
	close(sc.stop)
	<-sc.done
}

func (sc *Scheduler) run() {
	defer close(sc.done)

	sc.sweepOnce()

	t := time.NewTicker(sc.interval)
	defer t.Stop()
	for {
		select {
		case <-sc.stop:
			return
		case <-t.C:
			sc.sweepOnce()
		}
	}
}

// A failed sweep is logged and dropped; the next tick recomputes from
// current data, so no per-row retry bookkeeping is needed.
func (sc *Scheduler) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sc.interval)
	defer cancel()

	n, err := sc.sweeper.Sweep(ctx)
	if err != nil {
		sc.log.Error("expiry sweep failed", "err", err)
		return
	}
	if n > 0 {
		sc.log.Info("expiry sweep completed bookings", "count", n)
	}
}
