package bootstrap

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/asynctime/logger"
)

// TaskResult is the outcome of one step of the application task.
type TaskResult struct {
	Name     string
	Outcome  string
	Duration time.Duration
	Err      error
}

// Summary tracks and displays what the application did.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration

	mu      sync.Mutex
	results []TaskResult
}

// NewSummary creates a new summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the time spent in OnStart hooks.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Record adds a task result.
func (s *Summary) Record(name, outcome string, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, TaskResult{Name: name, Outcome: outcome, Duration: d, Err: err})
}

// Results returns a copy of the recorded results.
func (s *Summary) Results() []TaskResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TaskResult(nil), s.results...)
}

// Failed reports how many results carry an error.
func (s *Summary) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// String renders the summary as a text table.
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	title := s.serviceName
	if s.version != "" {
		title += " " + s.version
	}
	fmt.Fprintf(&b, "%s (startup %s)\n", title, s.startupDuration.Round(time.Millisecond))
	for _, r := range s.results {
		status := "ok"
		if r.Err != nil {
			status = "FAILED: " + r.Err.Error()
		}
		fmt.Fprintf(&b, "  %-16s %-12s %10s  %s\n", r.Name, r.Outcome, r.Duration.Round(time.Microsecond), status)
	}
	return b.String()
}

// Display logs one line per result and a closing total.
func (s *Summary) Display(log *logger.Logger) {
	results := s.Results()
	for _, r := range results {
		fields := logger.DurationFields(r.Name, r.Duration)
		fields[logger.FieldOutcome] = r.Outcome
		if r.Err != nil {
			fields[logger.FieldError] = r.Err.Error()
			log.Warn("task step failed", fields)
			continue
		}
		log.Info("task step finished", fields)
	}
	log.Info("summary", logger.Fields(
		"steps", len(results),
		"failed", s.Failed(),
		"startup_ms", s.startupDuration.Milliseconds(),
	))
}
