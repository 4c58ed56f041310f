package liquid

import (
	"context"
	"testing"
	"time"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

func TestPointerFeed(t *testing.T) {
	feed := NewPointerFeed()

	var a, b []geom.Point
	cancelA := feed.Subscribe(func(p geom.Point) { a = append(a, p) })
	feed.Subscribe(func(p geom.Point) { b = append(b, p) })

	feed.Publish(geom.Pt(1, 2))
	cancelA()
	cancelA() // second cancel is harmless
	feed.Publish(geom.Pt(3, 4))

	if len(a) != 1 || a[0] != geom.Pt(1, 2) {
		t.Errorf("Cancelled subscriber: expected one event, got %v", a)
	}
	if len(b) != 2 {
		t.Errorf("Active subscriber: expected two events, got %v", b)
	}
	if feed.Subscribers() != 1 {
		t.Errorf("Expected 1 subscriber, got %d", feed.Subscribers())
	}
}

func TestPointerFeedCancelDuringEmit(t *testing.T) {
	feed := NewPointerFeed()
	var cancel func()
	calls := 0
	cancel = feed.Subscribe(func(geom.Point) {
		calls++
		cancel()
	})

	feed.Publish(geom.Pt(0, 0))
	feed.Publish(geom.Pt(0, 0))
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestIntervalFrames(t *testing.T) {
	frames := NewIntervalFrames(time.Millisecond)
	got := make(chan time.Time, 16)
	frames.Subscribe(func(now time.Time) {
		select {
		case got <- now:
		default:
		}
	})

	frames.Start(context.Background())
	frames.Start(context.Background()) // already running
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("No frame delivered")
	}
	frames.Stop()
	frames.Stop()

	// Drain, then make sure the goroutine is gone
	for len(got) > 0 {
		<-got
	}
	select {
	case <-got:
		t.Error("Frame delivered after Stop")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestIntervalFramesContextCancel(t *testing.T) {
	frames := NewIntervalFrames(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	frames.Start(ctx)
	cancel()
	// Stop waits for the goroutine to exit
	frames.Stop()
}

func TestIntervalFramesInterval(t *testing.T) {
	frames := NewIntervalFrames(0)
	if frames.Interval() != time.Second/60 {
		t.Errorf("Expected 60fps default, got %v", frames.Interval())
	}
	frames.SetInterval(FPS(30))
	if frames.Interval() != time.Second/30 {
		t.Errorf("Expected 30fps, got %v", frames.Interval())
	}
	frames.SetInterval(-1)
	if frames.Interval() != time.Second/30 {
		t.Error("Negative interval should be ignored")
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Expected %v, got %v", epoch, c.Now())
	}
	if got := c.Advance(time.Second); !got.Equal(epoch.Add(time.Second)) {
		t.Errorf("Advance returned %v", got)
	}
	c.Set(epoch)
	if !c.Now().Equal(epoch) {
		t.Errorf("Set did not move the clock: %v", c.Now())
	}
	var _ Clock = SystemClock{}
}
