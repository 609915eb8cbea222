package telemetry

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/evosim/config"
	"github.com/pthm-cable/evosim/sim"
)

// Recorder is the standard output sink: it logs generation summaries,
// writes per-generation stats, and snapshots organism positions for
// recorded generations. Every write is best-effort; failures are logged
// and never abort the simulation.
type Recorder struct {
	cfg       *config.Config
	collector *Collector
	manager   *OutputManager
	logger    *slog.Logger

	organisms []*sim.Organism
	gen       int
	step      int
	recording bool
}

// NewRecorder wires a recorder to an output folder. The rng feeds the
// similarity sampler only, keeping the simulation's own stream untouched.
func NewRecorder(dir string, cfg *config.Config, rng *rand.Rand, logger *slog.Logger) (*Recorder, error) {
	manager, err := NewOutputManager(dir)
	if err != nil {
		return nil, err
	}
	if err := manager.WriteConfig(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		cfg:       cfg,
		collector: NewCollector(rng, cfg.Brain.InnerNodes),
		manager:   manager,
		logger:    logger,
	}, nil
}

// willRecordGeneration gates the expensive per-step snapshots: only the
// final generation and every record_frequency-th one are captured.
func (r *Recorder) willRecordGeneration(gen int) bool {
	return gen == r.cfg.Run.Generations-1 || gen%r.cfg.Output.RecordFrequency == 0
}

// GenerationStarted captures the new population and, for recorded
// generations, its starting positions.
func (r *Recorder) GenerationStarted(organisms []*sim.Organism, gen int) {
	r.organisms = organisms
	r.gen = gen
	r.step = 0
	r.recording = r.willRecordGeneration(gen)
	if r.recording {
		r.snapshot()
	}
}

// StepComplete snapshots positions while recording.
func (r *Recorder) StepComplete() {
	r.step++
	if r.recording {
		r.snapshot()
	}
}

// GenerationComplete folds the generation into the stats series.
func (r *Recorder) GenerationComplete(numSurvivors int) {
	stats := r.collector.AddGeneration(r.gen, r.organisms, numSurvivors)
	if err := r.manager.WriteStats(stats); err != nil {
		r.logger.Warn("writing generation stats", "err", err)
	}
	r.logger.Info("generation complete", "stats", stats)
}

// SimulationComplete writes the factor distribution summary.
func (r *Recorder) SimulationComplete() {
	if err := r.manager.WriteFactorDistribution(r.collector.FactorCounts()); err != nil {
		r.logger.Warn("writing factor distribution", "err", err)
	}
	r.logger.Info("simulation complete", "generations", r.cfg.Run.Generations)
}

// Close releases the underlying output files.
func (r *Recorder) Close() error {
	return r.manager.Close()
}

func (r *Recorder) snapshot() {
	snapshots := make([]PositionSnapshot, len(r.organisms))
	for i, org := range r.organisms {
		loc := org.Loc()
		snapshots[i] = PositionSnapshot{
			Generation: r.gen,
			Step:       r.step,
			Organism:   i,
			X:          loc.X,
			Y:          loc.Y,
		}
	}
	if err := r.manager.WriteSnapshots(snapshots); err != nil {
		r.logger.Warn("writing position snapshots", "err", err)
	}
}

// Multi fans events out to several sinks.
type Multi []sim.Output

func (m Multi) GenerationStarted(organisms []*sim.Organism, gen int) {
	for _, out := range m {
		out.GenerationStarted(organisms, gen)
	}
}

func (m Multi) StepComplete() {
	for _, out := range m {
		out.StepComplete()
	}
}

func (m Multi) GenerationComplete(numSurvivors int) {
	for _, out := range m {
		out.GenerationComplete(numSurvivors)
	}
}

func (m Multi) SimulationComplete() {
	for _, out := range m {
		out.SimulationComplete()
	}
}
