package models

import (
	"fmt"
	"time"
)

// Severity classifies a single observation. The order matters: aggregation
// across a cycle takes the maximum.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityCrit
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARN"
	case SeverityCrit:
		return "CRIT"
	default:
		return "OK"
	}
}

// ExitCode maps a severity to the process exit code for single-shot runs.
func (s Severity) ExitCode() int {
	return int(s)
}

// MaxSeverity returns the higher of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// Metric is one named observation. Value is a formatted string by
// contract: renderers are format-agnostic text sinks and must never
// reinterpret it.
type Metric struct {
	Key      string   `json:"key"`
	Value    string   `json:"value"`
	Severity Severity `json:"severity"`
}

// Snapshot holds every metric produced by one check cycle. It is created
// empty at the start of a cycle, written by one probe at a time, and read
// by exactly one renderer after the last probe finishes.
type Snapshot struct {
	Taken    time.Time
	Hostname string

	metrics map[string]Metric
	order   []string
}

// NewSnapshot returns an empty snapshot stamped with the cycle start time.
func NewSnapshot(hostname string) *Snapshot {
	return &Snapshot{
		Taken:    time.Now(),
		Hostname: hostname,
		metrics:  map[string]Metric{},
	}
}

// Add records a metric. Keys are unique within a cycle: a second write to
// the same key is a wiring error between probes and is rejected so the
// caller can surface it instead of masking the first value.
func (s *Snapshot) Add(m Metric) error {
	if _, ok := s.metrics[m.Key]; ok {
		return fmt.Errorf("duplicate metric key %q", m.Key)
	}
	s.metrics[m.Key] = m
	s.order = append(s.order, m.Key)
	return nil
}

// Get looks up a metric by key.
func (s *Snapshot) Get(key string) (Metric, bool) {
	m, ok := s.metrics[key]
	return m, ok
}

// Metrics returns all metrics in insertion order.
func (s *Snapshot) Metrics() []Metric {
	out := make([]Metric, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.metrics[k])
	}
	return out
}

// Len reports the number of metrics recorded so far.
func (s *Snapshot) Len() int {
	return len(s.order)
}
