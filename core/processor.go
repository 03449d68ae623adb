package core

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vakthund/vakthund/core/protocol"
	"github.com/vakthund/vakthund/core/signature"
)

// Preventer is the narrow prevention capability the consumer invokes on a
// detection match. Platform enforcement is opaque to the core.
type Preventer interface {
	BlockIP(addr netip.Addr) error
}

// Processor runs the per-event detection pipeline: parse (first parser
// wins), scan the parsed payload, and on a match invoke prevention against
// the configured block target. Events no parser can handle are skipped
// with a warning; raw bytes are never scanned. Owned by exactly one
// consumer task.
type Processor struct {
	engine      *signature.Engine
	preventer   Preventer
	blockTarget netip.Addr
	metrics     *DetectionMetrics
}

// NewProcessor wires the detection pipeline. preventer may be nil, in which
// case matches are logged but nothing is blocked.
func NewProcessor(engine *signature.Engine, preventer Preventer, blockTarget netip.Addr, metrics *DetectionMetrics) *Processor {
	return &Processor{
		engine:      engine,
		preventer:   preventer,
		blockTarget: blockTarget,
		metrics:     metrics,
	}
}

// Process runs one event through parse, scan, and prevention. It never
// fails the pipeline: parser and firewall errors are logged and the
// consumer moves on to the next event.
func (p *Processor) Process(e Event) {
	logrus.Debugf("Processing event (%d bytes)", len(e.Payload))

	pkt, err := protocol.ParseAny(e.Payload)
	if err != nil {
		logrus.Warnf("No compatible protocol parser found (%d bytes)", len(e.Payload))
		p.metrics.CountSkipped()
		return
	}

	start := time.Now()
	matches := p.engine.Scan(pkt.Payload())
	p.metrics.ObserveDetectionLatency(time.Since(start))
	p.metrics.CountProcessed()

	if len(matches) == 0 {
		return
	}
	p.metrics.CountMatched()

	logrus.WithFields(logrus.Fields{
		"rule_id":      pkt.RuleID(),
		"matches":      len(matches),
		"timestamp_ns": e.TimestampNs,
	}).Info("Suspicious patterns detected")

	if p.preventer == nil {
		return
	}
	if err := p.preventer.BlockIP(p.blockTarget); err != nil {
		logrus.WithFields(logrus.Fields{
			"error":  fmt.Errorf("%w: %v", ErrPreventionFailure, err).Error(),
			"action": "block_ip",
			"target": p.blockTarget.String(),
		}).Error("Firewall block failed")
		return
	}
	logrus.Infof("Blocked IP %s", p.blockTarget)
}
