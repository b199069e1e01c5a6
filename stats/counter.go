package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

func NewRpsCounter() *RpsCounter {
	return &RpsCounter{
		mu: &sync.Mutex{},
	}
}

// RpsCounter counts elements and calculates the rate per second since
// the first Add and since the last Tick.
type RpsCounter struct {
	counter  int64
	lastAdd  int64
	start    time.Time
	lastTick time.Time
	mu       *sync.Mutex
	now      func() time.Time
}

func (r *RpsCounter) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *RpsCounter) Add(n int) {
	atomic.AddInt64(&r.counter, int64(n))
	atomic.AddInt64(&r.lastAdd, int64(n))
	if n > 0 {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.start.IsZero() {
			r.start = r.clock()
			r.lastTick = r.start
		}
	}
}

func (r *RpsCounter) Value() int64 {
	return atomic.LoadInt64(&r.counter)
}

// Rps returns the average rate since the first Add.
func (r *RpsCounter) Rps() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.start.IsZero() {
		return 0
	}
	secs := r.clock().Sub(r.start).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&r.counter)) / secs
}

// LastRps returns the rate since the last Tick.
func (r *RpsCounter) LastRps() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastTick.IsZero() {
		return 0
	}
	secs := r.clock().Sub(r.lastTick).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&r.lastAdd)) / secs
}

func (r *RpsCounter) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lastTick.IsZero() {
		r.lastTick = r.clock()
	}
	atomic.StoreInt64(&r.lastAdd, 0)
}
