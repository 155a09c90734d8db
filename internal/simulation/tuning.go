package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
)

// ErrInvalidTuning is returned when a tuning message misses a field, holds
// the wrong kind of value or sets a limit that is not positive.
var ErrInvalidTuning = errors.New("invalid tuning message")

// Tuning is the set of live parameters a front end may change while the
// simulation runs. It is comparable, so callers can skip resending an
// unchanged value.
type Tuning struct {
	MaxSpeed float64
	MaxForce float64
	Solver   SolverConfig
	Solver2  SolverConfig
	Respawn  bool
}

// TuningFromConfig returns the tuning a config starts with.
func TuningFromConfig(cfg *Config) Tuning {
	return Tuning{
		MaxSpeed: cfg.MaxSpeed,
		MaxForce: cfg.MaxForce,
		Solver:   cfg.Solver,
		Solver2:  cfg.Solver2,
	}
}

// Apply pushes the tuning into f. Limits and solver parameters are validated
// before any boid changes; a respawn draws from rng.
func (t Tuning) Apply(f *behavior.Flock, rng *rand.Rand) error {
	if !(t.MaxSpeed > 0) || math.IsInf(t.MaxSpeed, 0) {
		return fmt.Errorf("%w: maxSpeed must be positive, got %v", ErrInvalidTuning, t.MaxSpeed)
	}
	if !(t.MaxForce > 0) || math.IsInf(t.MaxForce, 0) {
		return fmt.Errorf("%w: maxForce must be positive, got %v", ErrInvalidTuning, t.MaxForce)
	}
	for _, s := range []SolverConfig{t.Solver, t.Solver2} {
		if _, err := s.Template(); err != nil {
			return err
		}
	}
	if err := f.Retune(behavior.PrimarySolver, t.Solver.Frequency, t.Solver.Damping, t.Solver.Response); err != nil {
		return err
	}
	if err := f.Retune(behavior.SecondarySolver, t.Solver2.Frequency, t.Solver2.Damping, t.Solver2.Response); err != nil {
		return err
	}
	f.Tune(t.MaxSpeed, t.MaxForce)
	if t.Respawn {
		f.Respawn(rng)
	}
	return nil
}

func solverFields(s SolverConfig) map[string]interface{} {
	return map[string]interface{}{"f": s.Frequency, "z": s.Damping, "r": s.Response}
}

// ToProto encodes the tuning as a protobuf Struct so it can travel through
// an actor mailbox.
func (t Tuning) ToProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"maxSpeed": t.MaxSpeed,
		"maxForce": t.MaxForce,
		"solver":   solverFields(t.Solver),
		"solver2":  solverFields(t.Solver2),
		"respawn":  t.Respawn,
	})
}

// TuningFromProto decodes a Struct produced by ToProto.
func TuningFromProto(s *structpb.Struct) (Tuning, error) {
	var t Tuning
	fields := s.GetFields()

	num := func(m map[string]*structpb.Value, key string) (float64, error) {
		v, ok := m[key].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidTuning, key)
		}
		return v.NumberValue, nil
	}
	solver := func(key string) (SolverConfig, error) {
		var sc SolverConfig
		sub := fields[key].GetStructValue().GetFields()
		if sub == nil {
			return sc, fmt.Errorf("%w: %q is not an object", ErrInvalidTuning, key)
		}
		var err error
		if sc.Frequency, err = num(sub, "f"); err != nil {
			return sc, err
		}
		if sc.Damping, err = num(sub, "z"); err != nil {
			return sc, err
		}
		if sc.Response, err = num(sub, "r"); err != nil {
			return sc, err
		}
		return sc, nil
	}

	var err error
	if t.MaxSpeed, err = num(fields, "maxSpeed"); err != nil {
		return t, err
	}
	if t.MaxForce, err = num(fields, "maxForce"); err != nil {
		return t, err
	}
	if t.Solver, err = solver("solver"); err != nil {
		return t, err
	}
	if t.Solver2, err = solver("solver2"); err != nil {
		return t, err
	}
	t.Respawn = fields["respawn"].GetBoolValue()
	return t, nil
}
