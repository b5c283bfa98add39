package broadcast

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pal625/logging"
	"pal625/source"
	"pal625/video"
)

type recordingSink struct {
	frames []video.Buffer
	onSend func(n int)
	err    error
}

func (s *recordingSink) WriteFrame(buf video.Buffer) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, buf)
	if s.onSend != nil {
		s.onSend(len(s.frames))
	}
	return nil
}

type trackedSource struct {
	source.Source
	closed *int
}

func (s trackedSource) Close() error {
	*s.closed++
	return nil
}

// flatOpener serves a flat raster for every known name, its luma taken from
// the map.
func flatOpener(lumas map[string]uint8, closed *int) Opener {
	return func(name string, p video.Profile) (source.Source, error) {
		luma, ok := lumas[name]
		if !ok {
			return nil, errors.New("no such source")
		}
		return trackedSource{Source: source.Still(video.Flat(p, luma)), closed: closed}, nil
	}
}

func testProfile(t *testing.T) video.Profile {
	t.Helper()
	p, err := video.NewProfile(52)
	require.NoError(t, err)
	return p
}

// firstActive returns the first active picture sample of a frame.
func firstActive(p video.Profile, buf video.Buffer) float64 {
	off := p.SyncBlockLen(p.HalfLineBroadPulse, video.SyncRepetitions) +
		p.SyncBlockLen(p.HalfLineShortPulse, video.SyncRepetitions) +
		p.HSyncPulse + p.BackPorch
	return buf[off]
}

func TestStep(t *testing.T) {
	s := State{Source: "a.png"}

	s = Step(s, Tick{})
	s = Step(s, Tick{})
	assert.Equal(t, State{Source: "a.png", Frame: 2}, s)

	next := Step(s, SetSource{Name: "b.png"})
	assert.Equal(t, State{Source: "b.png", Frame: 2}, next)
	assert.Equal(t, "a.png", s.Source)
}

func TestRunBoundedFrames(t *testing.T) {
	p := testProfile(t)
	closed := 0
	sink := &recordingSink{}
	r := New(p, Options{Frames: 3, Open: flatOpener(map[string]uint8{"": 0}, &closed)},
		logging.WithComponent(logging.Discard(), "test"), sink)

	state, err := r.Run(context.Background(), State{})
	require.NoError(t, err)

	assert.Equal(t, 3, state.Frame)
	require.Len(t, sink.frames, 3)
	for _, f := range sink.frames {
		assert.Len(t, f, p.FrameLen())
	}
	assert.Equal(t, 1, closed)
}

func TestRunSourceSwitch(t *testing.T) {
	p := testProfile(t)
	closed := 0
	sink := &recordingSink{}
	r := New(p, Options{Frames: 4, Open: flatOpener(map[string]uint8{"black": 0, "white": 255}, &closed)},
		logging.WithComponent(logging.Discard(), "test"), sink)
	sink.onSend = func(n int) {
		if n == 2 {
			r.Send(SetSource{Name: "white"})
		}
	}

	state, err := r.Run(context.Background(), State{Source: "black"})
	require.NoError(t, err)

	assert.Equal(t, State{Source: "white", Frame: 4}, state)
	require.Len(t, sink.frames, 4)
	want := []float64{video.Luma(0), video.Luma(0), video.Luma(255), video.Luma(255)}
	for i, f := range sink.frames {
		assert.Equal(t, want[i], firstActive(p, f), "frame %d", i)
	}
	assert.Equal(t, 2, closed)
}

func TestRunKeepsSourceOnFailedSwitch(t *testing.T) {
	p := testProfile(t)
	closed := 0
	sink := &recordingSink{}
	r := New(p, Options{Frames: 2, Open: flatOpener(map[string]uint8{"black": 0}, &closed)},
		logging.WithComponent(logging.Discard(), "test"), sink)
	r.Send(SetSource{Name: "missing"})

	state, err := r.Run(context.Background(), State{Source: "black"})
	require.NoError(t, err)

	assert.Equal(t, State{Source: "black", Frame: 2}, state)
	assert.Len(t, sink.frames, 2)
}

func TestRunErrors(t *testing.T) {
	p := testProfile(t)
	log := logging.WithComponent(logging.Discard(), "test")

	t.Run("missing source", func(t *testing.T) {
		closed := 0
		r := New(p, Options{Frames: 1, Open: flatOpener(nil, &closed)}, log)
		_, err := r.Run(context.Background(), State{Source: "nope"})
		assert.Error(t, err)
	})

	t.Run("sink failure", func(t *testing.T) {
		closed := 0
		errDisk := errors.New("disk full")
		r := New(p, Options{Frames: 5, Open: flatOpener(map[string]uint8{"": 0}, &closed)}, log,
			&recordingSink{err: errDisk})
		state, err := r.Run(context.Background(), State{})
		assert.ErrorIs(t, err, errDisk)
		assert.Equal(t, 0, state.Frame)
	})

	t.Run("wrong raster height", func(t *testing.T) {
		open := func(string, video.Profile) (source.Source, error) {
			return source.Still(image.NewGray(image.Rect(0, 0, p.PixelsPerLine, 10))), nil
		}
		r := New(p, Options{Frames: 1, Open: open}, log)
		_, err := r.Run(context.Background(), State{})
		assert.ErrorIs(t, err, video.ErrRasterHeight)
	})
}

func TestRunCancelled(t *testing.T) {
	p := testProfile(t)
	closed := 0
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{onSend: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	r := New(p, Options{Open: flatOpener(map[string]uint8{"": 0}, &closed)},
		logging.WithComponent(logging.Discard(), "test"), sink)

	state, err := r.Run(ctx, State{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, state.Frame)
	assert.Equal(t, 1, closed)
}

func TestRunPaced(t *testing.T) {
	p := testProfile(t)
	closed := 0
	sink := &recordingSink{}
	r := New(p, Options{Frames: 3, FrameRate: 1000, Open: flatOpener(map[string]uint8{"": 0}, &closed)},
		logging.WithComponent(logging.Discard(), "test"), sink)

	state, err := r.Run(context.Background(), State{})
	require.NoError(t, err)
	assert.Equal(t, 3, state.Frame)
}
