// Package observ measures how long the driver spends in each phase.
package observ

import (
	"sync"
	"time"
)

// Timer accumulates durations per named phase in first-use order.
// Workers of a directory run share one Timer.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*phase
}

type phase struct {
	dur   time.Duration
	count int
	note  string
}

func NewTimer() *Timer {
	return &Timer{phases: make(map[string]*phase, 4)}
}

// Start opens a measurement of name; the returned func closes it and
// attaches note when non-empty.
func (t *Timer) Start(name string) (stop func(note string)) {
	started := time.Now()
	return func(note string) {
		t.record(name, time.Since(started), note)
	}
}

// Add folds an already measured duration into name.
func (t *Timer) Add(name string, dur time.Duration) {
	t.record(name, dur, "")
}

func (t *Timer) record(name string, dur time.Duration, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &phase{}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.dur += dur
	p.count++
	if note != "" {
		p.note = note
	}
}

// PhaseReport is one phase in a Report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of a Timer; TotalMS sums the phases.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, name := range t.order {
		p := t.phases[name]
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: name, DurationMS: millis(p.dur), Count: p.count, Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
