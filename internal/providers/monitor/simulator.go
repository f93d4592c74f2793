// Package monitor feeds the system-status widget.
//
// The widget shows simulated load figures refreshed on a fixed interval;
// Runtime reports real figures for the host process.
package monitor

import (
	"math"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultInterval is how often simulated metrics refresh
const DefaultInterval = 2 * time.Second

// Metrics are the percentages shown by the system-status widget
type Metrics struct {
	CPU       int       `json:"cpu"`
	Memory    int       `json:"memory"`
	Disk      int       `json:"disk"`
	Network   int       `json:"network"`
	SampledAt time.Time `json:"sampled_at"`
}

// Simulator produces a new random sample every interval
type Simulator struct {
	interval time.Duration
	load     distuv.Uniform
	disk     distuv.Uniform

	mu        sync.RWMutex
	current   Metrics
	listeners []func(Metrics)
	stop      chan struct{}
	done      chan struct{}
}

// NewSimulator creates a simulator holding an initial sample
func NewSimulator(interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Simulator{
		interval: interval,
		load:     distuv.Uniform{Min: 0, Max: 100},
		// disk usage stays high
		disk: distuv.Uniform{Min: 70, Max: 90},
	}
	s.current = s.sample()
	return s
}

// Subscribe registers a listener for each new sample
func (s *Simulator) Subscribe(fn func(Metrics)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Start begins periodic refresh; calling it twice is a no-op
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Close stops the refresh loop and waits for it to exit
func (s *Simulator) Close() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Current returns the latest sample
func (s *Simulator) Current() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh takes a new sample immediately
func (s *Simulator) Refresh() Metrics {
	m := s.sample()

	s.mu.Lock()
	s.current = m
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
	return m
}

func (s *Simulator) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

func (s *Simulator) sample() Metrics {
	return Metrics{
		CPU:       percent(s.load.Rand()),
		Memory:    percent(s.load.Rand()),
		Disk:      percent(s.disk.Rand()),
		Network:   percent(s.load.Rand()),
		SampledAt: time.Now(),
	}
}

func percent(v float64) int {
	return int(math.Floor(v))
}
