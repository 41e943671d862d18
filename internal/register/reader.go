// internal/register/reader.go
package register

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrOutOfBounds is returned when a read would run past the end of the buffer.
var ErrOutOfBounds = errors.New("register: read out of bounds")

// ErrScale is returned for a scale outside Unity..Thousandth.
var ErrScale = errors.New("register: unsupported scale")

// Scale is a power-of-ten divisor applied to fixed-point registers.
type Scale uint8

const (
	Unity      Scale = 0 // x1
	Decimal    Scale = 1 // x0.1
	Centesimal Scale = 2 // x0.01
	Thousandth Scale = 3 // x0.001
)

func (s Scale) String() string {
	switch s {
	case Unity:
		return "unity"
	case Decimal:
		return "decimal"
	case Centesimal:
		return "centesimal"
	case Thousandth:
		return "thousandth"
	default:
		return fmt.Sprintf("scale(%d)", uint8(s))
	}
}

// checkBounds reports whether width bytes starting at offset fit in buf.
func checkBounds(buf []byte, offset, width int) error {
	if offset < 0 || offset+width > len(buf) {
		return fmt.Errorf("%w: offset=%d width=%d len=%d", ErrOutOfBounds, offset, width, len(buf))
	}
	return nil
}

// ReadUint16 reads one big-endian register at byte offset.
func ReadUint16(buf []byte, offset int) (uint16, error) {
	if err := checkBounds(buf, offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[offset:]), nil
}

// ReadInt16 reads one big-endian register at byte offset as a signed value.
func ReadInt16(buf []byte, offset int) (int16, error) {
	v, err := ReadUint16(buf, offset)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// ReadUint32 reads two consecutive registers, high word first.
func ReadUint32(buf []byte, offset int) (uint32, error) {
	if err := checkBounds(buf, offset, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[offset:]), nil
}

// ReadFloat32 reinterprets two consecutive registers as an IEEE-754
// binary32 bit pattern, high word first.
func ReadFloat32(buf []byte, offset int) (float32, error) {
	bits, err := ReadUint32(buf, offset)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadInt16Decimal reads a signed fixed-point register and returns the
// exact value raw * 10^-scale.
func ReadInt16Decimal(buf []byte, offset int, scale Scale) (decimal.Decimal, error) {
	if scale > Thousandth {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrScale, scale)
	}
	raw, err := ReadInt16(buf, offset)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(int64(raw), -int32(scale)), nil
}

// ReadInt16Scaled is ReadInt16Decimal converted to float64.
func ReadInt16Scaled(buf []byte, offset int, scale Scale) (float64, error) {
	d, err := ReadInt16Decimal(buf, offset, scale)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}
