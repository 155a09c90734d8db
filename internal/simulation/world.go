package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor owns the authoritative flock. Its mailbox serialises ticks and
// tuning, so the flock is only ever touched by one goroutine.
//
// Messages:
//   - *durationpb.Duration advances one tick of that much simulated time
//   - *structpb.Struct carries a Tuning encoded by Tuning.ToProto
type WorldActor struct {
	cfg    *Config
	frame  *Frame
	engine *engine

	// Communication with UI
	snapshotCh chan<- *Snapshot
	errCh      chan<- error

	// --- Benchmark Stats ---
	tickCount   int
	busy        time.Duration
	lastLogTime time.Time
}

// NewWorldActor creates the world logic unit. Snapshots and tick failures are
// pushed without blocking; a full channel drops the value.
func NewWorldActor(cfg *Config, frame *Frame, snapshotCh chan<- *Snapshot, errCh chan<- error) *WorldActor {
	return &WorldActor{
		cfg:        cfg,
		frame:      frame,
		snapshotCh: snapshotCh,
		errCh:      errCh,
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	e, err := newEngine(w.cfg)
	if err != nil {
		return err
	}
	w.engine = e
	w.lastLogTime = time.Now()
	ctx.ActorSystem().Logger().Infof("World is spawning %d boids...", e.flock.Len())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")
		w.publish(TakeSnapshot(w.engine.flock, w.frame.World(), w.engine.tuning))

	case *durationpb.Duration:
		snap, err := w.engine.tick(ctx.Context(), w.frame.World(), msg.AsDuration())
		if err != nil {
			ctx.Logger().Errorf("World tick failed: %v", err)
			w.fail(err)
			return
		}
		w.tickCount++
		w.busy += snap.StepDuration
		w.logBenchmarks(ctx)
		w.publish(snap)

	case *structpb.Struct:
		t, err := TuningFromProto(msg)
		if err == nil {
			err = w.engine.tune(t)
		}
		if err != nil {
			ctx.Logger().Warnf("World rejected tuning: %v", err)
			w.fail(err)
			return
		}
		ctx.Logger().Debugf("World tuning applied: %+v", t)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if elapsed := time.Since(w.lastLogTime); elapsed >= time.Second {
		var mean time.Duration
		if w.tickCount > 0 {
			mean = w.busy / time.Duration(w.tickCount)
		}
		ctx.Logger().Infof("📊 TICK RATE: %.1f/sec (mean step %s) | Boids: %d",
			float64(w.tickCount)/elapsed.Seconds(), mean, w.engine.flock.Len())
		w.tickCount = 0
		w.busy = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) publish(snap *Snapshot) {
	select {
	case w.snapshotCh <- snap:
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) fail(err error) {
	select {
	case w.errCh <- err:
	default:
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
