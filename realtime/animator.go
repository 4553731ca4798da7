package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrQueueFull is returned by Send when the per-tick command batch is full.
var ErrQueueFull = errors.New("command queue full")

// Frame is one emitted animation step.
type Frame struct {
	Tick  uint64
	Depth int
}

// FrameFunc renders a frame. A returned error stops the animation.
type FrameFunc func(ctx context.Context, f Frame) error

// Config configures an Animator.
type Config struct {
	TickRate           time.Duration // default 100ms
	From, To           int           // inclusive depth range
	Loop               bool
	MaxCommandsPerTick int // default 64
}

// Animator emits frames of increasing depth at a fixed rate.
type Animator struct {
	cfg     Config
	onFrame FrameFunc

	mu      sync.Mutex
	batch   []commandWithMeta
	seq     uint64
	tickNum uint64
	current int // last drawn depth, From-1 before the first frame
	paused  bool
	done    bool
	err     error

	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewAnimator creates an Animator. It does nothing until Start or Tick.
func NewAnimator(cfg Config, onFrame FrameFunc) (*Animator, error) {
	if cfg.TickRate == 0 {
		cfg.TickRate = 100 * time.Millisecond
	}
	if cfg.MaxCommandsPerTick == 0 {
		cfg.MaxCommandsPerTick = 64
	}
	if cfg.From < 0 || cfg.To < cfg.From {
		return nil, fmt.Errorf("depth range %d..%d is empty or negative", cfg.From, cfg.To)
	}
	if onFrame == nil {
		return nil, errors.New("nil frame func")
	}
	return &Animator{
		cfg:     cfg,
		onFrame: onFrame,
		batch:   make([]commandWithMeta, 0, cfg.MaxCommandsPerTick),
		current: cfg.From - 1,
		stopped: make(chan struct{}),
	}, nil
}

// Send queues a command for the next tick. Safe for concurrent use.
func (a *Animator) Send(c Command) error {
	return a.SendWithPriority(c, 0)
}

// SendWithPriority queues a command; higher priorities apply first.
func (a *Animator) SendWithPriority(c Command, priority int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.batch) >= cap(a.batch) {
		return ErrQueueFull
	}
	a.batch = append(a.batch, commandWithMeta{Command: c, SequenceNum: a.seq, Priority: priority})
	a.seq++
	return nil
}

// Tick processes one tick: apply queued commands, then emit a frame unless
// paused. It reports whether the animation should continue.
func (a *Animator) Tick(ctx context.Context) (bool, error) {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return false, a.err
	}
	cmds := a.batch
	a.batch = make([]commandWithMeta, 0, a.cfg.MaxCommandsPerTick)
	a.tickNum++
	tick := a.tickNum
	a.mu.Unlock()

	sortCommands(cmds)
	var frames []int
	for _, c := range cmds {
		switch c.Command {
		case Pause:
			a.setPaused(true)
		case Resume:
			a.setPaused(false)
		case StepForward:
			frames = append(frames, a.move(+1))
		case StepBack:
			frames = append(frames, a.move(-1))
		case Restart:
			a.mu.Lock()
			a.current = a.cfg.From - 1
			a.mu.Unlock()
		}
	}

	a.mu.Lock()
	paused := a.paused
	a.mu.Unlock()
	if !paused && len(frames) == 0 {
		frames = append(frames, a.advance())
	}

	for _, d := range frames {
		if d < 0 {
			return a.finish(nil)
		}
		if err := a.emit(ctx, Frame{Tick: tick, Depth: d}); err != nil {
			return a.finish(err)
		}
	}
	return true, nil
}

// emit calls the frame func, turning a panic into an error.
func (a *Animator) emit(ctx context.Context, f Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame %d (depth %d) panicked: %v", f.Tick, f.Depth, r)
		}
	}()
	return a.onFrame(ctx, f)
}

func (a *Animator) setPaused(p bool) {
	a.mu.Lock()
	a.paused = p
	a.mu.Unlock()
}

// move shifts the drawn depth by delta within [From, To] and returns it.
func (a *Animator) move(delta int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = min(max(a.current+delta, a.cfg.From), a.cfg.To)
	return a.current
}

// advance returns the next depth to draw, or -1 once a non-looping
// animation has drawn To.
func (a *Animator) advance() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.current + 1
	if next > a.cfg.To {
		if !a.cfg.Loop {
			return -1
		}
		next = a.cfg.From
	}
	a.current = next
	return next
}

func (a *Animator) finish(err error) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.done = true
	a.err = err
	return false, err
}

// Start runs Tick on a ticker until the animation finishes, ctx is done or
// Stop is called.
func (a *Animator) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return errors.New("animator already started")
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	go a.loop(ctx)
	return nil
}

func (a *Animator) loop(ctx context.Context) {
	defer close(a.stopped)
	ticker := time.NewTicker(a.cfg.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if more, _ := a.Tick(ctx); !more {
				return
			}
		}
	}
}

// Wait blocks until the loop started by Start exits and returns the frame
// error, if any. Without Start it returns at once.
func (a *Animator) Wait() error {
	a.mu.Lock()
	started := a.cancel != nil
	a.mu.Unlock()
	if started {
		<-a.stopped
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Stop ends the loop and waits for it.
func (a *Animator) Stop() error {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	return a.Wait()
}

// Finished reports whether the animation has ended, either after its last
// frame or on a frame error.
func (a *Animator) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// TickNumber returns the number of ticks processed.
func (a *Animator) TickNumber() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tickNum
}
