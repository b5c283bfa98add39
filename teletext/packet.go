package teletext

import (
	"errors"
	"fmt"
)

// Sizes of a transmitted packet.
const (
	PayloadSize = 40
	PacketSize  = 5 + PayloadSize
)

// Synchronisation bytes preceding the address.
const (
	ClockRunIn  = 0x55
	FramingCode = 0x27
)

var (
	ErrMagazineRange = errors.New("magazine out of range 0-7")
	ErrPacketRange   = errors.New("packet number out of range 0-31")
	ErrPayloadSize   = errors.New("payload longer than 40 bytes")
)

// PacketAddress returns the Hamming protected address of a packet as
// [high, low]: low carries the magazine and the packet number's least
// significant bit, high the remaining four packet number bits. Inputs are
// masked to their field widths; use NewPacket to reject them instead.
func PacketAddress(magazine, packetNumber uint8) [2]byte {
	low := Hamming84(magazine&0x7 | (packetNumber&0x1)<<3)
	high := Hamming84(packetNumber >> 1 & 0xf)
	return [2]byte{high, low}
}

// Packet is one teletext row.
type Packet struct {
	Magazine     uint8
	PacketNumber uint8
	Payload      []byte
}

// NewPacket validates the address fields and payload length.
func NewPacket(magazine, packetNumber int, payload []byte) (Packet, error) {
	if magazine < 0 || magazine > 7 {
		return Packet{}, fmt.Errorf("%w: %d", ErrMagazineRange, magazine)
	}
	if packetNumber < 0 || packetNumber > 31 {
		return Packet{}, fmt.Errorf("%w: %d", ErrPacketRange, packetNumber)
	}
	if len(payload) > PayloadSize {
		return Packet{}, fmt.Errorf("%w: %d", ErrPayloadSize, len(payload))
	}
	return Packet{Magazine: uint8(magazine), PacketNumber: uint8(packetNumber), Payload: payload}, nil
}

// Encode returns the packet as transmitted: clock run-in, framing code, the
// two address bytes low first, and the payload as odd parity characters
// padded with spaces.
func (pk Packet) Encode() [PacketSize]byte {
	var b [PacketSize]byte
	addr := PacketAddress(pk.Magazine, pk.PacketNumber)

	b[0], b[1], b[2] = ClockRunIn, ClockRunIn, FramingCode
	b[3], b[4] = addr[1], addr[0]
	for i := 0; i < PayloadSize; i++ {
		c := byte(' ')
		if i < len(pk.Payload) {
			c = pk.Payload[i]
		}
		b[5+i] = WithParity(c)
	}
	return b
}
