// Package coordtest provides a deterministic frame source for tests.
package coordtest

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shhac/coordinator/internal/coordinator"
)

var _ coordinator.FrameSource = (*ManualFrames)(nil)

// ManualFrames is a FrameSource whose clock only moves when Advance is
// called. Do and Advance are serialized, standing in for the UI goroutine.
type ManualFrames struct {
	frameMu sync.Mutex

	mu      sync.Mutex
	running []*run
}

type run struct {
	duration time.Duration
	elapsed  time.Duration
	tick     func(float32)
	stopped  atomic.Bool
}

// NewManualFrames creates a frame source with no running animations.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// Do implements coordinator.FrameSource.
func (m *ManualFrames) Do(fn func()) {
	m.frameMu.Lock()
	defer m.frameMu.Unlock()
	fn()
}

// Start implements coordinator.FrameSource.
func (m *ManualFrames) Start(d time.Duration, tick func(float32)) func() {
	r := &run{duration: d, tick: tick}
	m.mu.Lock()
	m.running = append(m.running, r)
	m.mu.Unlock()
	return func() { r.stopped.Store(true) }
}

// Advance moves the clock by dt and delivers one frame to every running
// animation. Animations that reach their duration receive 1 and are removed.
func (m *ManualFrames) Advance(dt time.Duration) {
	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	for _, r := range m.snapshot() {
		if r.stopped.Load() {
			continue
		}
		r.elapsed += dt
		fraction := float32(1)
		if r.elapsed < r.duration {
			fraction = float32(r.elapsed) / float32(r.duration)
		}
		r.tick(fraction)
		if fraction >= 1 {
			r.stopped.Store(true)
		}
	}
	m.prune()
}

// Frames advances by step n times.
func (m *ManualFrames) Frames(n int, step time.Duration) {
	for i := 0; i < n; i++ {
		m.Advance(step)
	}
}

// Active returns the number of animations still receiving frames.
func (m *ManualFrames) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.running {
		if !r.stopped.Load() {
			n++
		}
	}
	return n
}

func (m *ManualFrames) snapshot() []*run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*run(nil), m.running...)
}

func (m *ManualFrames) prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.running[:0]
	for _, r := range m.running {
		if !r.stopped.Load() {
			kept = append(kept, r)
		}
	}
	m.running = kept
}
