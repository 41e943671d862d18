// internal/register/bits.go
package register

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrBitRange is returned for a bit position or field width that does not
// fit in a 16-bit register.
var ErrBitRange = errors.New("register: bit range invalid")

// BitOrder selects how bit positions inside a register are numbered.
// It is independent of the big-endian byte order of the register itself.
type BitOrder uint8

const (
	// LSBFirst numbers bit 0 as the least significant bit.
	LSBFirst BitOrder = iota
	// MSBFirst numbers bit 0 as the most significant bit.
	MSBFirst
)

func (o BitOrder) String() string {
	if o == MSBFirst {
		return "msb_first"
	}
	return "lsb_first"
}

// diag receives diagnostics from the sentinel-returning bit readers.
var diag atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	diag.Store(&nop)
}

// SetLogger routes bit reader diagnostics to l.
// It is safe to call while reads are in flight.
func SetLogger(l zerolog.Logger) {
	tagged := l.With().Str("component", "register").Logger()
	diag.Store(&tagged)
}

func logger() *zerolog.Logger { return diag.Load() }

func actualPosition(pos uint, order BitOrder) uint {
	if order == MSBFirst {
		return 15 - pos
	}
	return pos
}

// ReadBitStrict extracts a single bit (0-15) from the register at byte offset.
func ReadBitStrict(buf []byte, offset int, pos uint, order BitOrder) (bool, error) {
	if err := checkBounds(buf, offset, 2); err != nil {
		return false, err
	}
	if pos > 15 {
		return false, fmt.Errorf("%w: position=%d", ErrBitRange, pos)
	}
	v := binary.BigEndian.Uint16(buf[offset:])
	return (v>>actualPosition(pos, order))&0x01 == 1, nil
}

// ReadBitsStrict extracts a field of n bits (1-8) starting at pos.
// With MSBFirst, pos is mirrored to bit 15-pos and the field still reads
// upward from there, so it must end at or below bit 15 after mirroring.
func ReadBitsStrict(buf []byte, offset int, pos, n uint, order BitOrder) (uint8, error) {
	if err := checkBounds(buf, offset, 2); err != nil {
		return 0, err
	}
	if pos > 15 {
		return 0, fmt.Errorf("%w: position=%d", ErrBitRange, pos)
	}
	low := actualPosition(pos, order)
	if n < 1 || n > 8 || low+n > 16 {
		return 0, fmt.Errorf("%w: position=%d bits=%d order=%s", ErrBitRange, pos, n, order)
	}
	v := binary.BigEndian.Uint16(buf[offset:])
	mask := uint16(1)<<n - 1
	return uint8((v >> low) & mask), nil
}

// ReadBit is ReadBitStrict that reports failure as false.
// A false result is ambiguous; validate offset and position first when
// that matters.
func ReadBit(buf []byte, offset int, pos uint, order BitOrder) bool {
	v, err := ReadBitStrict(buf, offset, pos, order)
	if err != nil {
		logger().Error().Err(err).Int("offset", offset).Uint("position", pos).Msg("bit read failed")
		return false
	}
	logger().Debug().
		Int("offset", offset).
		Uint("position", pos).
		Stringer("order", order).
		Bool("value", v).
		Msg("bit read")
	return v
}

// ReadBits is ReadBitsStrict that reports failure as 0.
func ReadBits(buf []byte, offset int, pos, n uint, order BitOrder) uint8 {
	v, err := ReadBitsStrict(buf, offset, pos, n, order)
	if err != nil {
		logger().Error().Err(err).Int("offset", offset).Uint("position", pos).Uint("bits", n).Msg("bit field read failed")
		return 0
	}
	logger().Debug().
		Int("offset", offset).
		Uint("position", pos).
		Uint("bits", n).
		Stringer("order", order).
		Uint8("value", v).
		Msg("bit field read")
	return v
}
