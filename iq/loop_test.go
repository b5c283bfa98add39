package iq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopEmpty(t *testing.T) {
	var l Loop
	buf := []byte{1, 2, 3, 4}
	l.Fill(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestLoopWraps(t *testing.T) {
	var l Loop
	l.Swap([]byte{1, 0, 2, 0, 3, 0})

	buf := make([]byte, 10)
	l.Fill(buf)
	assert.Equal(t, []byte{1, 0, 2, 0, 3, 0, 1, 0, 2, 0}, buf)
}

func TestLoopSwapsAtFrameStart(t *testing.T) {
	var l Loop
	l.Swap([]byte{1, 0, 2, 0})

	buf := make([]byte, 2)
	l.Fill(buf)
	assert.Equal(t, []byte{1, 0}, buf)

	l.Swap([]byte{9, 0, 8, 0})
	buf = make([]byte, 6)
	l.Fill(buf)
	assert.Equal(t, []byte{2, 0, 9, 0, 8, 0}, buf)
}
