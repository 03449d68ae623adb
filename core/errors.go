package core

import "errors"

// Error kinds from the error-handling design. Each is a sentinel so callers
// can distinguish policy with errors.Is; kinds that need extra context wrap
// one of these with fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidCapacity is returned when a Bus is constructed with a
	// capacity that is not a power of two. Fatal at startup.
	ErrInvalidCapacity = errors.New("core: capacity must be a power of two")

	// ErrQueueFull is returned by TryPush when the bus has no free slot.
	// Recoverable; the producer retries or drops.
	ErrQueueFull = errors.New("core: queue full")

	// ErrSimulationValidation is returned when a run's finalized hash does
	// not match the scenario's expected hash.
	ErrSimulationValidation = errors.New("core: simulation hash mismatch")

	// ErrPreventionFailure wraps a firewall backend error. Logged; never
	// stops detection.
	ErrPreventionFailure = errors.New("core: prevention failure")

	// ErrPatternRebuildFailure is returned by NewRuntime and
	// Runtime.AddPattern, wrapping the signature engine's error, when a
	// pattern is rejected or the automaton rebuild fails; the previous
	// automaton remains installed.
	ErrPatternRebuildFailure = errors.New("core: pattern rebuild failure")
)
