package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
)

// engine owns a flock and everything needed to advance it. Both drivers
// wrap one; it is not safe for concurrent use.
type engine struct {
	flock  *behavior.Flock
	rng    *rand.Rand
	tuning Tuning
}

func newEngine(cfg *Config) (*engine, error) {
	rng := cfg.Rand()
	f, err := cfg.NewFlock(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build flock: %w", err)
	}
	return &engine{flock: f, rng: rng, tuning: TuningFromConfig(cfg)}, nil
}

// tick runs one Step against w, then smooths by dt when dt is positive.
func (e *engine) tick(ctx context.Context, w behavior.World, dt time.Duration) (*Snapshot, error) {
	start := time.Now()
	if err := e.flock.Step(ctx, w); err != nil {
		return nil, fmt.Errorf("tick %d: %w", e.flock.Ticks(), err)
	}
	if dt > 0 {
		if err := e.flock.Smooth(dt.Seconds()); err != nil {
			return nil, fmt.Errorf("tick %d: %w", e.flock.Ticks(), err)
		}
	}
	snap := TakeSnapshot(e.flock, w, e.tuning)
	snap.StepDuration = time.Since(start)
	return snap, nil
}

// tune applies t. The respawn flag is an event, it is not kept.
func (e *engine) tune(t Tuning) error {
	if err := t.Apply(e.flock, e.rng); err != nil {
		return fmt.Errorf("failed to apply tuning: %w", err)
	}
	t.Respawn = false
	e.tuning = t
	return nil
}
