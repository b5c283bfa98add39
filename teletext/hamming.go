// Package teletext encodes teletext packets: odd parity for text bytes,
// Hamming 8/4 protection for address bytes, and the two-level NRZ line
// signal that carries a packet in the vertical blanking interval.
package teletext

import (
	"errors"
	"math/bits"
)

// ErrUncorrectable is returned when a Hamming 8/4 byte has more than one bit
// in error.
var ErrUncorrectable = errors.New("hamming 8/4: uncorrectable error")

// ParityBit folds b with its top bit forced high down to a single bit. For a
// 7-bit character this is the bit 7 value that gives the byte odd parity.
func ParityBit(b byte) byte {
	b |= 0x80
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b & 1
}

// WithParity sets bit 7 of a 7-bit character so the byte has odd parity.
func WithParity(c byte) byte {
	c &= 0x7f
	return c | ParityBit(c)<<7
}

// Hamming84 protects the low four bits of nibble. Transmission order, LSB
// first, is p1 d1 p2 d2 p3 d3 d4 p4.
func Hamming84(nibble byte) byte {
	d1 := nibble & 1
	d2 := nibble >> 1 & 1
	d3 := nibble >> 2 & 1
	d4 := nibble >> 3 & 1

	p1 := 1 ^ d1 ^ d3 ^ d4
	p2 := 1 ^ d1 ^ d2 ^ d4
	p3 := 1 ^ d1 ^ d2 ^ d3
	p4 := 1 ^ p1 ^ d1 ^ p2 ^ d2 ^ p3 ^ d3 ^ d4

	return p1 | d1<<1 | p2<<2 | d2<<3 | p3<<4 | d3<<5 | d4<<6 | p4<<7
}

var codebook = func() (c [16]byte) {
	for n := range c {
		c[n] = Hamming84(byte(n))
	}
	return c
}()

// Codebook returns the sixteen Hamming 8/4 codewords indexed by nibble.
func Codebook() [16]byte {
	return codebook
}

// DecodeHamming84 returns the nibble whose codeword is nearest to b. A
// single flipped bit is corrected and reported; two or more are an error.
func DecodeHamming84(b byte) (nibble byte, corrected bool, err error) {
	for n, c := range codebook {
		switch bits.OnesCount8(b ^ c) {
		case 0:
			return byte(n), false, nil
		case 1:
			return byte(n), true, nil
		}
	}
	return 0, false, ErrUncorrectable
}
