package core

import (
	"fmt"
	"net/netip"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vakthund/vakthund/core/signature"
)

// emptyBusBackoff is how long the consumer sleeps when the bus is empty
// before polling again.
const emptyBusBackoff = time.Millisecond

// SourceFunc yields events with non-decreasing timestamps until exhausted.
// The second return value is false once no more events will come.
type SourceFunc func() (Event, bool)

// RuntimeOptions configures a Runtime.
type RuntimeOptions struct {
	// BusCapacity is the event-bus capacity; must be a power of two.
	BusCapacity int

	// Patterns is the initial signature set.
	Patterns []string

	// BlockTarget is the address prevention blocks on a detection match.
	// Defaults to 127.0.0.1 when unset.
	BlockTarget netip.Addr

	// BugReportDir is where hash-mismatch bug reports are written.
	// Defaults to "bug_reports".
	BugReportDir string

	// Preventer handles block requests; nil logs matches without blocking.
	Preventer Preventer
}

// Runtime owns the pipeline: it builds the bus, spawns exactly one
// consumer task and one producer task per run (simulator, replay, or live
// source), joins them, and validates the run's state hash against an
// expected hash when one is supplied.
type Runtime struct {
	busCapacity int
	engine      *signature.Engine
	processor   *Processor
	diagnostics *Diagnostics
	metrics     *DetectionMetrics
	terminate   atomic.Bool
}

// NewRuntime validates opts and wires the signature engine, processor, and
// diagnostics. Returns ErrInvalidCapacity for a non-power-of-two bus
// capacity and ErrPatternRebuildFailure when an initial pattern cannot be
// installed; both are fatal at startup.
func NewRuntime(opts RuntimeOptions) (*Runtime, error) {
	// Validate capacity eagerly; each run constructs its own bus.
	if _, err := NewBus(opts.BusCapacity); err != nil {
		return nil, err
	}

	if opts.BugReportDir == "" {
		opts.BugReportDir = "bug_reports"
	}
	if !opts.BlockTarget.IsValid() {
		opts.BlockTarget = netip.AddrFrom4([4]byte{127, 0, 0, 1})
	}

	engine := signature.New()
	for _, p := range opts.Patterns {
		if err := engine.AddPattern([]byte(p)); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrPatternRebuildFailure, p, err)
		}
	}

	metrics := NewDetectionMetrics()
	return &Runtime{
		busCapacity: opts.BusCapacity,
		engine:      engine,
		processor:   NewProcessor(engine, opts.Preventer, opts.BlockTarget, metrics),
		diagnostics: NewDiagnostics(opts.BugReportDir),
		metrics:     metrics,
	}, nil
}

// AddPattern installs an additional signature at runtime. Concurrent scans
// see either the old or the new pattern set, never a partial one.
func (r *Runtime) AddPattern(pattern string) error {
	if err := r.engine.AddPattern([]byte(pattern)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrPatternRebuildFailure, pattern, err)
	}
	return nil
}

// Stop signals producer loops to terminate between events. Safe to call
// from any goroutine (typically a signal handler).
func (r *Runtime) Stop() {
	r.terminate.Store(true)
}

// Stopping reports whether Stop has been called.
func (r *Runtime) Stopping() bool {
	return r.terminate.Load()
}

// Metrics exposes the consumer's detection metrics.
func (r *Runtime) Metrics() *DetectionMetrics {
	return r.metrics
}

// Diagnostics exposes the run's diagnostics collector.
func (r *Runtime) Diagnostics() *Diagnostics {
	return r.diagnostics
}

// consume drains bus until it is closed and empty, running each event
// through the processor. This is the single consumer task; re-checking
// Recv after observing Closed is what makes the exit race-free (the close
// store happens after the producer's final push).
func (r *Runtime) consume(bus *Bus) {
	for {
		if e, ok := bus.Recv(); ok {
			r.processor.Process(e)
			continue
		}
		if bus.Closed() {
			if e, ok := bus.Recv(); ok {
				r.processor.Process(e)
				continue
			}
			return
		}
		time.Sleep(emptyBusBackoff)
	}
}

// runPipeline spawns the consumer and the given producer against a fresh
// bus, waits for the producer to finish, closes the bus, and joins the
// consumer. Exactly one producer and one consumer task touch the bus.
func (r *Runtime) runPipeline(produce func(bus *Bus) error) error {
	bus, err := NewBus(r.busCapacity)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		r.consume(bus)
		return nil
	})
	g.Go(func() error {
		defer bus.Close()
		return produce(bus)
	})
	return g.Wait()
}

// RunSimulation executes one simulator run: generates cfg.EventCount
// events onto the bus with SendBlocking while the consumer drains them,
// then finalizes the state hash. A non-empty expectedHash is validated
// against the result — on mismatch a bug report is written and the run
// fails with ErrSimulationValidation. A non-empty recordPath saves the
// run's scenario for later replay. Returns the final hash.
func (r *Runtime) RunSimulation(cfg SimulatorConfig, expectedHash, recordPath string) (string, error) {
	logrus.Debugf("Starting simulation: seed=%d events=%d latency=%dms jitter=%dms chaos=%.2f",
		cfg.Seed, cfg.EventCount, cfg.Network.LatencyMs, cfg.Network.JitterMs, cfg.Chaos.FaultProbability)

	sim := NewSimulator(cfg, nil)
	err := r.runPipeline(func(bus *Bus) error {
		sim.bus = bus
		for id := 0; id < cfg.EventCount; id++ {
			if r.terminate.Load() {
				logrus.Info("Simulation terminated early")
				break
			}
			sim.SimulateEvent(id)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	actual := sim.FinalizeHash()
	if recordPath != "" {
		if err := sim.BuildScenario().Save(recordPath); err != nil {
			return actual, err
		}
		r.diagnostics.RecordScenarioHash(recordPath, actual)
		logrus.Infof("Scenario saved to %s", recordPath)
	}

	if expectedHash != "" && actual != expectedHash {
		return actual, r.reportMismatch(cfg, expectedHash, actual, sim.LastPayload())
	}
	return actual, nil
}

// RunScenario replays a scenario file through the pipeline and validates
// the replayed hash against the file's expected hash. Returns the actual
// hash.
func (r *Runtime) RunScenario(path string) (string, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return "", err
	}
	logrus.Infof("Replaying scenario %s (%d entries, seed %d)", path, len(scenario.Events), scenario.Seed)

	replay := NewReplayEngine(scenario, NewClock(scenario.Seed))
	err = r.runPipeline(func(bus *Bus) error {
		for {
			if r.terminate.Load() {
				logrus.Info("Replay terminated early")
				return nil
			}
			event, ok := replay.NextEvent()
			if !ok {
				return nil
			}
			bus.SendBlocking(event)
		}
	})
	if err != nil {
		return "", err
	}

	actual := replay.FinalizeHash()
	r.diagnostics.RecordScenarioHash(path, actual)
	if scenario.ExpectedHash != "" && actual != scenario.ExpectedHash {
		return actual, r.reportMismatch(scenario.Config, scenario.ExpectedHash, actual, nil)
	}
	logrus.Infof("Scenario validation successful (%s)", actual)
	return actual, nil
}

// RunSource drives an arbitrary source (e.g. a synthetic test feed)
// through the pipeline until it is exhausted or Stop is called. The source
// chooses no backpressure policy of its own; every event is preserved via
// SendBlocking.
func (r *Runtime) RunSource(next SourceFunc) error {
	return r.runPipeline(func(bus *Bus) error {
		for {
			if r.terminate.Load() {
				return nil
			}
			event, ok := next()
			if !ok {
				return nil
			}
			bus.SendBlocking(event)
		}
	})
}

// RunLive drives a live capture source through the pipeline. Unlike the
// deterministic sources it uses TryPush and logs drops: a slow consumer
// must not stall the capture fast path. start is called with a callback
// that enqueues events; it blocks until capture ends or Stop is called.
func (r *Runtime) RunLive(start func(emit func(Event)) error) error {
	return r.runPipeline(func(bus *Bus) error {
		return start(func(e Event) {
			if err := bus.TryPush(e); err != nil {
				logrus.Warnf("Dropping captured packet: %v", err)
			}
		})
	})
}

// RunFuzz performs fuzz testing: for each iteration it derives a
// reproducible SimulatorConfig from seed+i, runs it through the pipeline,
// then re-runs the same configuration off-bus and compares hashes. Any
// divergence between the two runs is a determinism bug — a bug report is
// written and the fuzz session stops. iterations == 0 means run until
// Stop.
func (r *Runtime) RunFuzz(seed uint64, iterations, maxEvents int) error {
	if iterations == 0 {
		logrus.Warn("Infinite fuzz mode activated (Ctrl-C to exit)")
	}

	for i := 0; iterations == 0 || i < iterations; i++ {
		if r.terminate.Load() {
			logrus.Infof("Fuzz testing stopped after %d iterations", i)
			return nil
		}

		currentSeed := seed + uint64(i)
		cfg := GenerateFuzzConfig(currentSeed, maxEvents)
		logrus.Infof("Starting fuzz iteration %d with seed %d (%d events, chaos %.2f%%, latency %dms, jitter %dms)",
			i+1, currentSeed, cfg.EventCount, cfg.Chaos.FaultProbability*100,
			cfg.Network.LatencyMs, cfg.Network.JitterMs)

		hash, err := r.RunSimulation(cfg, "", "")
		if err != nil {
			return err
		}

		// Determinism self-check: the same config replayed off-bus must
		// land on the same hash.
		recheck := NewSimulator(cfg, nil).Run()
		if recheck != hash {
			return r.reportMismatch(cfg, hash, recheck, nil)
		}

		if iterations > 0 && (i+1)%10 == 0 {
			logrus.Infof("Progress: %d/%d", i+1, iterations)
		}
	}
	logrus.Infof("Fuzz testing complete: %d iterations", iterations)
	return nil
}

// reportMismatch writes a bug report and returns ErrSimulationValidation.
func (r *Runtime) reportMismatch(cfg SimulatorConfig, expected, actual string, offendingPayload []byte) error {
	logrus.Errorf("Hash mismatch! Expected %s, got %s", expected, actual)
	if _, err := r.diagnostics.RecordBugReport(BugReport{
		Seed:             cfg.Seed,
		Config:           cfg,
		ExpectedHash:     expected,
		ActualHash:       actual,
		OffendingPayload: offendingPayload,
	}); err != nil {
		logrus.Errorf("Failed to write bug report: %v", err)
	}
	return fmt.Errorf("%w: expected %s, got %s", ErrSimulationValidation, expected, actual)
}
