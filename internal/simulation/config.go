package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/dynamics"
	"github.com/lao-tseu-is-alive/go-flock-dynamics/pkg/geometry"
)

//go:embed config.schema.json
var configSchema string

// SolverConfig holds the frequency (Hz), damping ratio and initial response
// of a second-order solver.
type SolverConfig struct {
	Frequency float64 `json:"f"`
	Damping   float64 `json:"z"`
	Response  float64 `json:"r"`
}

// Template builds a solver resting on the origin.
func (s SolverConfig) Template() (*dynamics.SecondOrderSolver, error) {
	return dynamics.NewSecondOrderSolver(s.Frequency, s.Damping, s.Response, geometry.Vector2D{})
}

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	NumBoids int    `json:"numBoids"`
	Seed     uint64 `json:"seed"`
	Workers  int    `json:"workers"` // goroutines for the flocking phase

	// Physics
	MaxSpeed       float64 `json:"maxSpeed"`
	MaxForce       float64 `json:"maxForce"`
	TicksPerSecond int     `json:"ticksPerSecond"`

	// Trajectory smoothing
	Solver  SolverConfig `json:"solver"`
	Solver2 SolverConfig `json:"solver2"`

	// Tails, disabled when TailJoints is 0
	TailJoints  int     `json:"tailJoints"`
	TailSpacing float64 `json:"tailSpacing"`
	TailMaxBend float64 `json:"tailMaxBend"` // radians

	// Pointer driven by perlin noise instead of the mouse
	Autopilot bool `json:"autopilot"`

	// Visualization
	DisplaySmoothed bool `json:"displaySmoothed"`
	DisplayLagged   bool `json:"displayLagged"`
	DisplayTails    bool `json:"displayTails"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:      1000,
		WorldHeight:     800,
		NumBoids:        250,
		Seed:            1,
		Workers:         1,
		MaxSpeed:        behavior.DefaultMaxSpeed,
		MaxForce:        behavior.DefaultMaxForce,
		TicksPerSecond:  60,
		Solver:          SolverConfig{Frequency: 2, Damping: 0.5, Response: 1},
		Solver2:         SolverConfig{Frequency: 1, Damping: 1, Response: 0},
		TailJoints:      8,
		TailSpacing:     3,
		TailMaxBend:     0.6,
		DisplaySmoothed: true,
		DisplayTails:    true,
	}
}

// LoadConfig loads configuration from a JSON file and validates it against
// the embedded schema. Keys missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig validates raw JSON against the schema and decodes it over
// DefaultConfig.
func ParseConfig(b []byte) (*Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// World is the flock's view of the configured area with no pointer.
func (c *Config) World() behavior.World {
	return behavior.World{Width: c.WorldWidth, Height: c.WorldHeight}
}

// NewFlock builds the configured flock, seeded from rng.
func (c *Config) NewFlock(rng *rand.Rand) (*behavior.Flock, error) {
	template, err := c.Solver.Template()
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	template2, err := c.Solver2.Template()
	if err != nil {
		return nil, fmt.Errorf("solver2: %w", err)
	}

	opts := []behavior.Option{behavior.WithWorkers(c.Workers)}
	if c.TailJoints > 0 {
		opts = append(opts, behavior.WithTails(c.TailJoints, c.TailSpacing, c.TailMaxBend))
	}
	f := behavior.NewFlock(c.NumBoids, rng, template, template2, opts...)
	f.Tune(c.MaxSpeed, c.MaxForce)
	return f, nil
}

// Rand returns the PCG source every run with this config starts from.
func (c *Config) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
}
