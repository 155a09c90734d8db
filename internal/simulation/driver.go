package simulation

import (
	"context"
	"time"

	golog "github.com/tochemey/goakt/v3/log"
)

// Driver advances a flock on behalf of a front end.
type Driver interface {
	// Advance requests one tick covering dt of simulated time.
	Advance(ctx context.Context, dt time.Duration) error
	// Latest returns the newest snapshot available, never nil.
	Latest() *Snapshot
	// Tune changes the live parameters.
	Tune(ctx context.Context, t Tuning) error
	Close(ctx context.Context) error
}

// LocalDriver runs the flock on the caller's goroutine.
type LocalDriver struct {
	engine *engine
	frame  *Frame
	logger golog.Logger
	latest *Snapshot
}

var _ Driver = (*LocalDriver)(nil)

func NewLocalDriver(cfg *Config, frame *Frame, logger golog.Logger) (*LocalDriver, error) {
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	logger.Infof("local driver ready: %d boids in %.0fx%.0f", e.flock.Len(), cfg.WorldWidth, cfg.WorldHeight)
	return &LocalDriver{
		engine: e,
		frame:  frame,
		logger: logger,
		latest: TakeSnapshot(e.flock, frame.World(), e.tuning),
	}, nil
}

func (d *LocalDriver) Advance(ctx context.Context, dt time.Duration) error {
	snap, err := d.engine.tick(ctx, d.frame.World(), dt)
	if err != nil {
		return err
	}
	d.latest = snap
	return nil
}

func (d *LocalDriver) Latest() *Snapshot {
	return d.latest
}

func (d *LocalDriver) Tune(_ context.Context, t Tuning) error {
	if err := d.engine.tune(t); err != nil {
		return err
	}
	d.logger.Debugf("tuning applied: %+v", t)
	return nil
}

func (d *LocalDriver) Close(context.Context) error {
	d.logger.Info("local driver closed")
	return nil
}
