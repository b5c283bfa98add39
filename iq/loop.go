package iq

import "sync"

// Loop replays the latest Format B frame endlessly into transmit buffers.
// Swap may be called from any goroutine while Fill runs in the device
// callback; a swapped frame takes effect at its start, never mid-frame.
type Loop struct {
	mu      sync.Mutex
	current []byte
	next    []byte
	pos     int
}

// Swap queues frame, already Format B encoded, for playback.
func (l *Loop) Swap(frame []byte) {
	l.mu.Lock()
	l.next = frame
	l.mu.Unlock()
}

// Fill copies samples into buf, wrapping at the end of the frame. With no
// frame queued yet buf is zeroed.
func (l *Loop) Fill(buf []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for n := 0; n < len(buf); {
		if l.pos == 0 && l.next != nil {
			l.current, l.next = l.next, nil
		}
		if len(l.current) == 0 {
			clear(buf[n:])
			return
		}
		c := copy(buf[n:], l.current[l.pos:])
		n += c
		l.pos += c
		if l.pos >= len(l.current) {
			l.pos = 0
		}
	}
}
