package metrics

import (
	"sync"
	"time"
)

// Attribute keys shared by every instrument.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrOutcome = "outcome"
	AttrKind    = "kind"
)

// Outcomes recorded for membership and guess attempts.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder counts domain events in memory and forwards them to OpenTelemetry
// instruments when telemetry is enabled. A nil *Recorder is a no-op.
type Recorder struct {
	mu       sync.Mutex
	counters map[string]int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		counters: make(map[string]int),
		otel:     otel,
	}
}

// RecordPoolCreated counts a created pool. kind is "owned" or "anonymous".
func (r *Recorder) RecordPoolCreated(kind string) {
	if r == nil {
		return
	}
	r.incr("pools_created:" + kind)
	if r.otel != nil {
		r.otel.recordPoolCreated(kind)
	}
}

// RecordCodeCollision counts a pool code that had to be regenerated.
func (r *Recorder) RecordCodeCollision() {
	if r == nil {
		return
	}
	r.incr("code_collisions")
	if r.otel != nil {
		r.otel.recordCodeCollision()
	}
}

// RecordJoin counts a join attempt by outcome.
func (r *Recorder) RecordJoin(outcome string) {
	if r == nil {
		return
	}
	r.incr("joins:" + outcome)
	if r.otel != nil {
		r.otel.recordJoin(outcome)
	}
}

// RecordGuess counts a guess submission by outcome.
func (r *Recorder) RecordGuess(outcome string) {
	if r == nil {
		return
	}
	r.incr("guesses:" + outcome)
	if r.otel != nil {
		r.otel.recordGuess(outcome)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.incr("http:" + method + " " + path)
	if r.otel != nil {
		r.otel.recordHTTPRequest(method, path, status, duration)
	}
}

// Count returns the in-memory value of a counter, e.g. "joins:ok".
func (r *Recorder) Count(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

func (r *Recorder) incr(name string) {
	r.mu.Lock()
	r.counters[name]++
	r.mu.Unlock()
}
