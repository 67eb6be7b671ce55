// Package stream serves the simulation to browsers over websockets. Clients
// send pointer input and receive binary frames of particle and dye state.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/vortex/particles"
)

// Message opcodes, the first byte of every server message.
const (
	OpCodeFrame   byte = 0x01
	OpCodePalette byte = 0x02
)

// FlagPresent marks the pointer as over the client's canvas.
const FlagPresent uint32 = 1 << 0

// InputMessage is the fixed 16-byte little-endian client message.
// Cursor coordinates are normalized to [0, 1] of the client canvas.
type InputMessage struct {
	CursorX float32
	CursorY float32
	Flags   uint32
	Scroll  float32
}

// InputMessageSize is the wire size of InputMessage.
const InputMessageSize = 16

// frameHeaderSize is opcode + tick + count + grid size.
const frameHeaderSize = 1 + 4 + 4 + 4

var (
	ErrShortMessage = errors.New("stream: message too short")
	ErrBadOpcode    = errors.New("stream: unexpected opcode")
)

// Present reports whether the pointer flag is set.
func (m InputMessage) Present() bool { return m.Flags&FlagPresent != 0 }

// DecodeInput parses a client input message. Trailing bytes are ignored.
func DecodeInput(msg []byte) (InputMessage, error) {
	var in InputMessage
	if len(msg) < InputMessageSize {
		return in, fmt.Errorf("%w: input is %d bytes, need %d", ErrShortMessage, len(msg), InputMessageSize)
	}
	if err := binary.Read(bytes.NewReader(msg[:InputMessageSize]), binary.LittleEndian, &in); err != nil {
		return in, fmt.Errorf("decoding input: %w", err)
	}
	return in, nil
}

// EncodeInput is the client side of DecodeInput.
func EncodeInput(in InputMessage) []byte {
	buf := make([]byte, InputMessageSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(in.CursorX))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(in.CursorY))
	binary.LittleEndian.PutUint32(buf[8:], in.Flags)
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(in.Scroll))
	return buf
}

// Frame is a decoded frame message.
type Frame struct {
	Tick      uint32
	Count     int
	Size      int
	Positions []float32 // x, y, z per particle
	Sizes     []float32
	Alpha     []byte // size*size dye alpha, row-major
}

// FrameLen is the encoded length of a frame with count particles on an n×n grid.
func FrameLen(count, n int) int {
	return frameHeaderSize + count*3*4 + count*4 + n*n
}

// EncodeFrame writes a frame message into dst, growing it if needed.
// positions holds 3 values per particle and alpha n*n bytes.
func EncodeFrame(dst []byte, tick uint32, positions, sizes []float32, alpha []byte, n int) ([]byte, error) {
	count := len(sizes)
	if len(positions) != count*3 {
		return dst, fmt.Errorf("stream: %d positions for %d particles", len(positions), count)
	}
	if len(alpha) != n*n {
		return dst, fmt.Errorf("stream: %d alpha bytes for grid size %d", len(alpha), n)
	}

	size := FrameLen(count, n)
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	dst[0] = OpCodeFrame
	binary.LittleEndian.PutUint32(dst[1:], tick)
	binary.LittleEndian.PutUint32(dst[5:], uint32(count))
	binary.LittleEndian.PutUint32(dst[9:], uint32(n))

	off := frameHeaderSize
	for _, v := range positions {
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
		off += 4
	}
	for _, v := range sizes {
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
		off += 4
	}
	copy(dst[off:], alpha)
	return dst, nil
}

// DecodeFrame parses a frame message.
func DecodeFrame(msg []byte) (Frame, error) {
	var f Frame
	if len(msg) < frameHeaderSize {
		return f, ErrShortMessage
	}
	if msg[0] != OpCodeFrame {
		return f, fmt.Errorf("%w: 0x%02x", ErrBadOpcode, msg[0])
	}
	f.Tick = binary.LittleEndian.Uint32(msg[1:])
	f.Count = int(binary.LittleEndian.Uint32(msg[5:]))
	f.Size = int(binary.LittleEndian.Uint32(msg[9:]))
	if len(msg) != FrameLen(f.Count, f.Size) {
		return f, fmt.Errorf("%w: frame is %d bytes, header says %d", ErrShortMessage, len(msg), FrameLen(f.Count, f.Size))
	}

	off := frameHeaderSize
	f.Positions = make([]float32, f.Count*3)
	for i := range f.Positions {
		f.Positions[i] = math.Float32frombits(binary.LittleEndian.Uint32(msg[off:]))
		off += 4
	}
	f.Sizes = make([]float32, f.Count)
	for i := range f.Sizes {
		f.Sizes[i] = math.Float32frombits(binary.LittleEndian.Uint32(msg[off:]))
		off += 4
	}
	f.Alpha = append([]byte(nil), msg[off:]...)
	return f, nil
}

// EncodePalette writes the ring colors: opcode, ring count, then RGB float32
// triples. Particle i uses ring i mod count.
func EncodePalette() []byte {
	buf := make([]byte, 1+4+particles.NumRings*3*4)
	buf[0] = OpCodePalette
	binary.LittleEndian.PutUint32(buf[1:], particles.NumRings)
	off := 5
	for _, rgb := range particles.Palette {
		for _, c := range rgb {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(c))
			off += 4
		}
	}
	return buf
}
