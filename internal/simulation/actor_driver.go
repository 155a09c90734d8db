package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
)

// ActorDriver hosts the flock inside a WorldActor. Advance and Tune only
// enqueue messages; results arrive asynchronously as snapshots.
type ActorDriver struct {
	System actor.ActorSystem

	worldPID  *actor.PID
	snapshots chan *Snapshot
	errs      chan error
	latest    *Snapshot
}

var _ Driver = (*ActorDriver)(nil)

// NewActorDriver starts an actor system and spawns the world in it.
func NewActorDriver(ctx context.Context, cfg *Config, frame *Frame, logger golog.Logger) (*ActorDriver, error) {
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffer to avoid blocking
	snapshots := make(chan *Snapshot, 10)
	errs := make(chan error, 1)
	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(cfg, frame, snapshots, errs))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	return &ActorDriver{
		System:    system,
		worldPID:  worldPID,
		snapshots: snapshots,
		errs:      errs,
		latest:    &Snapshot{World: frame.World(), Tuning: TuningFromConfig(cfg)},
	}, nil
}

// Advance reports a failure of an earlier tick, if any, then enqueues a tick.
func (d *ActorDriver) Advance(ctx context.Context, dt time.Duration) error {
	select {
	case err := <-d.errs:
		return err
	default:
	}
	return actor.Tell(ctx, d.worldPID, durationpb.New(dt))
}

// Latest drains pending snapshots and keeps the newest.
func (d *ActorDriver) Latest() *Snapshot {
	for {
		select {
		case snap := <-d.snapshots:
			d.latest = snap
		default:
			return d.latest
		}
	}
}

// Next blocks until the world publishes a snapshot, a tick fails or ctx is done.
func (d *ActorDriver) Next(ctx context.Context) (*Snapshot, error) {
	select {
	case snap := <-d.snapshots:
		d.latest = snap
		return snap, nil
	case err := <-d.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *ActorDriver) Tune(ctx context.Context, t Tuning) error {
	msg, err := t.ToProto()
	if err != nil {
		return fmt.Errorf("failed to encode tuning: %w", err)
	}
	return actor.Tell(ctx, d.worldPID, msg)
}

func (d *ActorDriver) Close(ctx context.Context) error {
	return d.System.Stop(ctx)
}
