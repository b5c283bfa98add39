package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"pal625/metrics"
	"pal625/source"
	"pal625/video"
)

// Sink consumes composed frames. Every sink is handed the same buffer, so
// sinks must not modify it.
type Sink interface {
	WriteFrame(video.Buffer) error
}

// Opener resolves a source name into a raster source.
type Opener func(name string, p video.Profile) (source.Source, error)

// Runner composes frames one after another on the calling goroutine.
type Runner struct {
	profile video.Profile
	frames  int
	limiter *rate.Limiter
	sinks   []Sink
	open    Opener
	log     *logrus.Entry

	commands chan Command
}

// Options configures a Runner.
type Options struct {
	// Frames bounds the run; 0 runs until the context ends.
	Frames int
	// FrameRate paces frames per second; 0 runs as fast as possible.
	FrameRate float64
	// Open defaults to source.Open.
	Open Opener
}

// New creates a runner composing frames for p into sinks.
func New(p video.Profile, opts Options, log *logrus.Entry, sinks ...Sink) *Runner {
	r := &Runner{
		profile:  p,
		frames:   opts.Frames,
		sinks:    sinks,
		open:     opts.Open,
		log:      log,
		commands: make(chan Command, 16),
	}
	if r.open == nil {
		r.open = source.Open
	}
	if opts.FrameRate > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.FrameRate), 1)
	}
	return r
}

// Send queues a command for the running loop. It blocks while the queue is
// full.
func (r *Runner) Send(c Command) {
	r.commands <- c
}

// Run composes frames starting from initial until the frame bound is reached
// or ctx ends, and returns the final state. A failed composition or sink
// write ends the run; nothing is retried.
func (r *Runner) Run(ctx context.Context, initial State) (State, error) {
	state := initial

	src, err := r.open(state.Source, r.profile)
	if err != nil {
		metrics.RecordError("source")
		return state, fmt.Errorf("opening source %q: %w", state.Source, err)
	}
	defer func() { src.Close() }()
	opened := state.Source

	r.log.WithFields(logrus.Fields{
		"source":  opened,
		"profile": r.profile.String(),
		"frames":  r.frames,
	}).Info("Starting frame composition")

	for r.frames == 0 || state.Frame < r.frames {
		state = r.drain(state)
		if state.Source != opened {
			src, opened, state = r.switchSource(src, opened, state)
		}

		if err := r.wait(ctx); err != nil {
			return state, err
		}

		img, err := src.Frame()
		if err != nil {
			metrics.RecordError("source")
			return state, fmt.Errorf("frame %d: %w", state.Frame, err)
		}

		start := time.Now()
		buf, err := video.Compose(img, r.profile)
		if err != nil {
			metrics.RecordError("compose")
			return state, fmt.Errorf("frame %d: %w", state.Frame, err)
		}
		metrics.RecordFrame(len(buf), time.Since(start))

		for _, sink := range r.sinks {
			if err := sink.WriteFrame(buf); err != nil {
				metrics.RecordError("sink")
				return state, fmt.Errorf("frame %d: %w", state.Frame, err)
			}
		}

		state = Step(state, Tick{})
		r.log.WithField("frame", state.Frame).Debug("Frame composed")
	}

	r.log.WithField("frames", state.Frame).Info("Frame composition finished")
	return state, nil
}

func (r *Runner) drain(state State) State {
	for {
		select {
		case c := <-r.commands:
			state = Step(state, c)
		default:
			return state
		}
	}
}

// switchSource opens the source named by state. If that fails the previous
// source stays on air and state is rolled back to it.
func (r *Runner) switchSource(cur source.Source, opened string, state State) (source.Source, string, State) {
	next, err := r.open(state.Source, r.profile)
	if err != nil {
		metrics.RecordError("source")
		r.log.WithError(err).WithField("source", state.Source).Warn("Keeping previous source")
		return cur, opened, Step(state, SetSource{Name: opened})
	}

	cur.Close()
	metrics.RecordSourceChange()
	r.log.WithFields(logrus.Fields{
		"from":  opened,
		"to":    state.Source,
		"frame": state.Frame,
	}).Info("Source switched")
	return next, state.Source, state
}

func (r *Runner) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	metrics.SetFrameLag(time.Since(start))
	return nil
}
