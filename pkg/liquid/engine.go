// Animation engine: binds a sampled shape to a motion controller,
// maps pointer input into the shape's space and produces a curve per frame.

package liquid

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ha1tch/liquid-toolkit/pkg/geom"
)

var (
	// ErrClosed is returned when attaching a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrAttached is returned when attaching an engine twice.
	ErrAttached = errors.New("engine already attached")
)

// Frame is the output of one render tick.
type Frame struct {
	Seq   uint64     // increases by one per tick
	At    time.Time  // engine clock at the tick
	Curve geom.Curve // curve through the current point positions
	Busy  bool       // some point is still moving
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. The default is the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithViewport maps device coordinates through vp. Without a viewport,
// device and local coordinates are the same.
func WithViewport(vp geom.Viewport) Option {
	return func(e *Engine) { e.viewport = &vp }
}

// WithReducedMotion disables animation: the engine subscribes to nothing
// and only ever renders the rest curve.
func WithReducedMotion(reduced bool) Option {
	return func(e *Engine) { e.reduced = reduced }
}

// WithLogger sets the logger. The default is the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine animates one shape.
type Engine struct {
	id      string
	cfg     PathConfig
	ctrl    *Controller
	clock   Clock
	log     *slog.Logger
	reduced bool

	mu       sync.Mutex
	viewport *geom.Viewport
	tr       *geom.Transformer
	trErr    error // last viewport error; pointer input is dropped while set
	pointer  geom.Point
	hasPtr   bool
	seq      uint64
	cancels  []func()
	attached bool
	closed   bool
}

// New samples path according to cfg and creates an engine with every
// point at rest. It fails if the configuration is invalid or the path
// cannot be sampled (geom.ErrInsufficientGeometry); no engine is returned
// in that case. An unusable viewport is not fatal: pointer input is
// ignored until Resize supplies a valid one.
func New(path *geom.Path, cfg PathConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Timing = cfg.Timing.WithDefaults()

	origins, err := geom.Sample(path, cfg.Detail, cfg.Closed)
	if err != nil {
		return nil, fmt.Errorf("sampling path: %w", err)
	}

	e := &Engine{
		id:    uuid.NewString(),
		cfg:   cfg,
		ctrl:  NewController(origins, cfg),
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = Logger()
	}
	e.log = e.log.With("engine", e.id)

	if e.viewport != nil {
		// Non-fatal; trErr holds the reason
		_ = e.Resize(*e.viewport)
	}

	maxDist := e.ctrl.MaxDist()
	e.log.Debug("engine created",
		"points", len(origins),
		"closed", cfg.Closed,
		"maxDistX", maxDist.X,
		"maxDistY", maxDist.Y,
		"reducedMotion", e.reduced)
	if origins[0] == origins[1] {
		e.log.Warn("first two samples coincide, motion disabled", "point", origins[0])
	}
	return e, nil
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the configuration with defaults applied.
func (e *Engine) Config() PathConfig {
	return e.cfg
}

// Controller returns the motion controller.
func (e *Engine) Controller() *Controller {
	return e.ctrl
}

// ReducedMotion reports whether animation is disabled.
func (e *Engine) ReducedMotion() bool {
	return e.reduced
}

// Resize rebuilds the device mapping for a new viewport. On error the
// previous mapping is discarded and pointer input is ignored until a
// later Resize succeeds.
func (e *Engine) Resize(vp geom.Viewport) error {
	tr, err := geom.NewTransformer(vp)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = &vp
	e.tr, e.trErr = tr, err
	if err != nil {
		e.log.Debug("viewport unusable, ignoring pointer input", "err", err)
		return err
	}
	return nil
}

// Transformer returns the current device mapping, or nil if there is no
// viewport or it is unusable.
func (e *Engine) Transformer() *geom.Transformer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tr
}

// PointerMove feeds a device-space pointer position to the controller.
// Non-finite positions and positions received while the viewport is
// unusable are dropped and leave all points unchanged. It reports whether
// the event was accepted.
func (e *Engine) PointerMove(device geom.Point) bool {
	if e.reduced {
		return false
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	if e.trErr != nil {
		e.mu.Unlock()
		e.log.Debug("pointer dropped, no usable viewport", "x", device.X, "y", device.Y)
		return false
	}

	local := device
	if e.tr != nil {
		var err error
		if local, err = e.tr.ToLocal(device); err != nil {
			e.mu.Unlock()
			e.log.Debug("pointer dropped", "err", err)
			return false
		}
	} else if !device.IsFinite() {
		e.mu.Unlock()
		e.log.Debug("pointer dropped, non-finite", "x", device.X, "y", device.Y)
		return false
	}
	e.pointer, e.hasPtr = local, true
	e.mu.Unlock()

	e.ctrl.Pointer(local, e.clock.Now())
	return true
}

// Pointer returns the last accepted pointer position in local space.
func (e *Engine) Pointer() (geom.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointer, e.hasPtr
}

// Tick advances all motion to the engine clock and returns the curve
// through the current positions. With reduced motion it returns the rest
// curve.
func (e *Engine) Tick() Frame {
	now := e.clock.Now()

	var curve geom.Curve
	busy := false
	if e.reduced {
		curve = e.RestCurve()
	} else {
		busy = e.ctrl.Step(now)
		curve = geom.Spline(e.ctrl.Snapshot(), e.cfg.Tension, e.cfg.Closed)
	}

	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	return Frame{Seq: seq, At: now, Curve: curve, Busy: busy}
}

// RestCurve returns the curve through the origins.
func (e *Engine) RestCurve() geom.Curve {
	return geom.Spline(e.ctrl.Origins(), e.cfg.Tension, e.cfg.Closed)
}

// Attach subscribes the engine to a pointer source and a frame source.
// Every frame is ticked and handed to sink. Either source may be nil.
// With reduced motion nothing is subscribed and sink receives a single
// rest frame before Attach returns.
func (e *Engine) Attach(pointers PointerSource, frames FrameSource, sink func(Frame)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.attached {
		e.mu.Unlock()
		return ErrAttached
	}
	e.attached = true

	if e.reduced {
		e.mu.Unlock()
		e.log.Debug("reduced motion, rendering rest curve only")
		if sink != nil {
			sink(e.Tick())
		}
		return nil
	}

	if pointers != nil {
		e.cancels = append(e.cancels, pointers.Subscribe(func(p geom.Point) {
			e.PointerMove(p)
		}))
	}
	if frames != nil {
		e.cancels = append(e.cancels, frames.Subscribe(func(time.Time) {
			f := e.Tick()
			if sink != nil {
				sink(f)
			}
		}))
	}
	n := len(e.cancels)
	e.mu.Unlock()

	e.log.Debug("engine attached", "subscriptions", n)
	return nil
}

// Close releases all subscriptions. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	cancels := e.cancels
	e.cancels = nil
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	e.log.Debug("engine closed", "released", len(cancels))
	return nil
}
