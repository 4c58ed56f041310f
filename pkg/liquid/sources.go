// Input and frame sources an Engine can attach to.

package liquid

import (
	"context"
	"sync"
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

// PointerSource delivers device-space pointer positions.
type PointerSource interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(device geom.Point)) (cancel func())
}

// FrameSource delivers render ticks.
type FrameSource interface {
	// Subscribe registers fn and returns a function that removes it.
	Subscribe(fn func(now time.Time)) (cancel func())
}

// subscribers is a set of callbacks keyed by registration order.
type subscribers[T any] struct {
	mu   sync.RWMutex
	next uint64
	fns  map[uint64]func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[uint64]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// emit calls every subscriber outside the lock, so callbacks may cancel.
func (s *subscribers[T]) emit(v T) {
	s.mu.RLock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (s *subscribers[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fns)
}

// PointerFeed is a PointerSource fed by the host's input layer.
type PointerFeed struct {
	subs subscribers[geom.Point]
}

// NewPointerFeed creates an empty feed.
func NewPointerFeed() *PointerFeed {
	return &PointerFeed{}
}

// Subscribe implements PointerSource.
func (f *PointerFeed) Subscribe(fn func(geom.Point)) func() {
	return f.subs.add(fn)
}

// Publish delivers a device-space pointer position to all subscribers.
func (f *PointerFeed) Publish(device geom.Point) {
	f.subs.emit(device)
}

// Subscribers returns the number of active subscriptions.
func (f *PointerFeed) Subscribers() int {
	return f.subs.len()
}

// IntervalFrames is a FrameSource driven by a ticker goroutine.
type IntervalFrames struct {
	subs subscribers[time.Time]

	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewIntervalFrames creates a frame source firing every interval once
// started. Non-positive intervals default to 60 frames per second.
func NewIntervalFrames(interval time.Duration) *IntervalFrames {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &IntervalFrames{interval: interval}
}

// FPS converts a frame rate into a frame interval.
func FPS(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Subscribe implements FrameSource.
func (f *IntervalFrames) Subscribe(fn func(time.Time)) func() {
	return f.subs.add(fn)
}

// Subscribers returns the number of active subscriptions.
func (f *IntervalFrames) Subscribers() int {
	return f.subs.len()
}

// Start begins firing frames until ctx is done or Stop is called.
// Starting a running source does nothing.
func (f *IntervalFrames) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.ticker = time.NewTicker(f.interval)
	f.done = make(chan struct{})

	go func(ticker *time.Ticker, done chan struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				f.subs.emit(now)
			}
		}
	}(f.ticker, f.done)
}

// Stop halts the ticker goroutine and waits for it to exit.
func (f *IntervalFrames) Stop() {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done, f.ticker = nil, nil, nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Interval returns the current frame interval.
func (f *IntervalFrames) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

// SetInterval changes the frame interval, taking effect immediately if
// the source is running.
func (f *IntervalFrames) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interval = d
	if f.ticker != nil {
		f.ticker.Reset(d)
	}
}

// Fire delivers one frame synchronously, for hosts that run their own loop.
func (f *IntervalFrames) Fire(now time.Time) {
	f.subs.emit(now)
}
