// Package broadcast drives frame composition for a host: it tracks which
// raster source is on air and how many frames have gone out, paces frames
// at the frame rate and hands every buffer to the configured sinks.
package broadcast

// State is everything that changes between frames. It is passed into and
// returned from Step rather than mutated in place.
type State struct {
	Source string
	Frame  int
}

// Command is an event applied to State between frames.
type Command interface {
	apply(State) State
}

// SetSource switches the raster source from the next frame on.
type SetSource struct {
	Name string
}

func (c SetSource) apply(s State) State {
	s.Source = c.Name
	return s
}

// Tick records that a frame went out.
type Tick struct{}

func (Tick) apply(s State) State {
	s.Frame++
	return s
}

// Step returns the state after c.
func Step(s State, c Command) State {
	return c.apply(s)
}
