/*
Package stats counts converted elements and reports the progress.
*/
package stats

import (
	"fmt"
	"sync"
	"time"

	"github.com/omniscale/osmjson/logging"
)

// ElementCounts is the summary of a conversion.
type ElementCounts struct {
	Elements int64
	Nodes    int64
	Ways     int64
	Skipped  int64
}

func (c ElementCounts) Records() int64 {
	return c.Nodes + c.Ways
}

func (c ElementCounts) String() string {
	return fmt.Sprintf("elements: %d, nodes: %d, ways: %d, skipped: %d",
		c.Elements, c.Nodes, c.Ways, c.Skipped)
}

// Statistics counts elements and records. Progress is reported every second
// until Stop is called.
type Statistics struct {
	elements *RpsCounter
	nodes    *RpsCounter
	ways     *RpsCounter
	skipped  *RpsCounter
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewStatsReporter returns Statistics that log the progress every second.
func NewStatsReporter() *Statistics {
	s := newStatistics()
	s.wg.Add(1)
	go s.loop(time.Second)
	return s
}

func newStatistics() *Statistics {
	return &Statistics{
		elements: NewRpsCounter(),
		nodes:    NewRpsCounter(),
		ways:     NewRpsCounter(),
		skipped:  NewRpsCounter(),
		done:     make(chan struct{}),
	}
}

func (s *Statistics) loop(interval time.Duration) {
	defer s.wg.Done()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			logging.Progress(s.progressLine())
			s.tick()
		case <-s.done:
			return
		}
	}
}

func (s *Statistics) tick() {
	s.elements.Tick()
	s.nodes.Tick()
	s.ways.Tick()
	s.skipped.Tick()
}

func (s *Statistics) progressLine() string {
	return fmt.Sprintf("Elements: %7d/s (%10d) Nodes: %7d/s (%9d) Ways: %7d/s (%8d)",
		roundRps(s.elements.LastRps(), 1000), s.elements.Value(),
		roundRps(s.nodes.LastRps(), 100), s.nodes.Value(),
		roundRps(s.ways.LastRps(), 100), s.ways.Value(),
	)
}

func roundRps(rps float64, to int64) int64 {
	return int64(rps) / to * to
}

// AddElements counts elements read from the input.
func (s *Statistics) AddElements(n int) {
	s.elements.Add(n)
	ElementsRead.Add(float64(n))
}

// AddRecord counts a written record of the element type typ.
func (s *Statistics) AddRecord(typ string) {
	switch typ {
	case "node":
		s.nodes.Add(1)
	case "way":
		s.ways.Add(1)
	}
	RecordsWritten.WithLabelValues(typ).Inc()
}

// AddSkipped counts elements without record.
func (s *Statistics) AddSkipped(n int) {
	s.skipped.Add(n)
	ElementsSkipped.Add(float64(n))
}

func (s *Statistics) Counts() ElementCounts {
	return ElementCounts{
		Elements: s.elements.Value(),
		Nodes:    s.nodes.Value(),
		Ways:     s.ways.Value(),
		Skipped:  s.skipped.Value(),
	}
}

// Stop stops the progress reporter and returns the final counts.
func (s *Statistics) Stop() ElementCounts {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return s.Counts()
}
