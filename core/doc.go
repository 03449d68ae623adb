// Package core provides the deterministic event pipeline at the heart of
// Vakthund: a bounded single-producer/single-consumer event bus, a
// reproducible simulator that drives it under virtual time, wire-format
// parsers, a signature engine, and the runtime that wires them together.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - event.go: the immutable value flowing through the system
//   - bus.go: the bounded ring connecting exactly one producer to one consumer
//   - clock.go: the virtual time source all simulated events are stamped with
//   - simulator.go: the event generator, its impairments, and its rolling hash
//   - runtime.go: wires a source (simulator, replay, or live capture) to the
//     detection worker and validates the run
//
// # Architecture
//
// core defines the interfaces and the pipeline kernel; implementations of
// pluggable strategies live in sub-packages:
//   - core/impairment/: latency, jitter, and packet-loss models
//   - core/protocol/: MQTT, CoAP, and Modbus parsers
//   - core/signature/: the Aho-Corasick pattern matcher
//   - core/prevention/: the firewall capability
//   - core/capture/: the live packet source (out-of-scope leaf)
//
// core/impairment registers its constructors via an init() function that
// sets package-level factory variables (see impairment.go), so core can
// build impairment models without importing core/impairment. core imports
// core/protocol and core/signature directly; core/prevention and
// core/capture are wired in by the caller (cmd).
package core
