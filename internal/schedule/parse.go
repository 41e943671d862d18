// internal/schedule/parse.go
package schedule

import (
	"errors"
	"fmt"
)

// ErrParse is returned for wire text that does not match the day shape.
var ErrParse = errors.New("schedule: parse error")

// SyntaxError reports where in the wire text parsing stopped.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("schedule: parse error at offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrParse }

// ParseDay parses one day of wire text into register values.
//
// Accepted shape, keys in exactly this order:
//
//	{"d":N,"sb":N,"i":[{"t":"HH:MM","s":N} x8]}
//
// "d" may be omitted. Whitespace between tokens is ignored. Anything else
// (reordered, unknown or missing keys, a wrong interval count,
// out-of-range values) fails and no partial result is returned.
func ParseDay(text string) (DayRegisters, error) {
	_, _, regs, err := parseDay(text)
	return regs, err
}

// ParseDaySchedule parses one day of wire text into a DaySchedule.
// Unlike ParseDay it requires the "d" key.
func ParseDaySchedule(text string) (DaySchedule, error) {
	day, ok, regs, err := parseDay(text)
	if err != nil {
		return DaySchedule{}, err
	}
	if !ok {
		return DaySchedule{}, &SyntaxError{Offset: 0, Msg: `missing key "d"`}
	}
	s, err := regs.Schedule(day)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return s, nil
}

// ---- parser ----

type parser struct {
	src string
	pos int
}

func parseDay(text string) (day int, hasDay bool, regs DayRegisters, err error) {
	p := &parser{src: text}

	day, hasDay, regs, err = p.day()
	if err != nil {
		return 0, false, DayRegisters{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, false, DayRegisters{}, p.errorf("trailing data")
	}
	return day, hasDay, regs, nil
}

// day = '{' ["d" ':' num ','] "sb" ':' num ',' "i" ':' '[' interval{8} ']' '}'
func (p *parser) day() (int, bool, DayRegisters, error) {
	var regs DayRegisters
	day := 0
	hasDay := false

	if err := p.expect('{'); err != nil {
		return 0, false, regs, err
	}

	key, err := p.key()
	if err != nil {
		return 0, false, regs, err
	}
	if key == "d" {
		v, err := p.number()
		if err != nil {
			return 0, false, regs, err
		}
		if v < 1 || v > DaysPerWeek {
			return 0, false, regs, p.errorf("day %d out of range 1-%d", v, DaysPerWeek)
		}
		day, hasDay = int(v), true
		if err := p.expect(','); err != nil {
			return 0, false, regs, err
		}
		if key, err = p.key(); err != nil {
			return 0, false, regs, err
		}
	}
	if key != "sb" {
		return 0, false, regs, p.errorf(`expected key "sb", got %q`, key)
	}
	sb, err := p.speed()
	if err != nil {
		return 0, false, regs, err
	}
	regs.Speed[0] = sb

	if err := p.expect(','); err != nil {
		return 0, false, regs, err
	}
	if err := p.expectKey("i"); err != nil {
		return 0, false, regs, err
	}
	if err := p.expect('['); err != nil {
		return 0, false, regs, err
	}

	for i := 0; i < IntervalsPerDay; i++ {
		if i > 0 {
			p.skipSpace()
			if p.peek() == ']' {
				return 0, false, regs, p.errorf("expected %d intervals, got %d", IntervalsPerDay, i)
			}
			if err := p.expect(','); err != nil {
				return 0, false, regs, err
			}
		}
		t, s, err := p.interval()
		if err != nil {
			return 0, false, regs, err
		}
		regs.Time[i] = t
		regs.Speed[i+1] = s
	}

	p.skipSpace()
	if p.peek() == ',' {
		return 0, false, regs, p.errorf("more than %d intervals", IntervalsPerDay)
	}
	if err := p.expect(']'); err != nil {
		return 0, false, regs, err
	}
	if err := p.expect('}'); err != nil {
		return 0, false, regs, err
	}

	return day, hasDay, regs, nil
}

// interval = '{' "t" ':' '"' HH ':' MM '"' ',' "s" ':' num '}'
func (p *parser) interval() (uint16, uint16, error) {
	p.skipSpace()
	if p.peek() == ']' {
		return 0, 0, p.errorf("expected %d intervals, got 0", IntervalsPerDay)
	}
	if err := p.expect('{'); err != nil {
		return 0, 0, err
	}
	if err := p.expectKey("t"); err != nil {
		return 0, 0, err
	}
	t, err := p.clock()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expect(','); err != nil {
		return 0, 0, err
	}
	if err := p.expectKey("s"); err != nil {
		return 0, 0, err
	}
	s, err := p.speed()
	if err != nil {
		return 0, 0, err
	}
	if err := p.expect('}'); err != nil {
		return 0, 0, err
	}
	return t, s, nil
}

func (p *parser) clock() (uint16, error) {
	p.skipSpace()
	start := p.pos
	str, err := p.str()
	if err != nil {
		return 0, err
	}
	if len(str) != 5 || str[2] != ':' ||
		!isDigit(str[0]) || !isDigit(str[1]) || !isDigit(str[3]) || !isDigit(str[4]) {
		return 0, &SyntaxError{Offset: start, Msg: fmt.Sprintf("time %q is not HH:MM", str)}
	}
	c := Clock{
		Hour:   (str[0]-'0')*10 + (str[1] - '0'),
		Minute: (str[3]-'0')*10 + (str[4] - '0'),
	}
	if !c.Valid() {
		return 0, &SyntaxError{Offset: start, Msg: fmt.Sprintf("time %q out of range", str)}
	}
	return c.Register(), nil
}

func (p *parser) speed() (uint16, error) {
	p.skipSpace()
	start := p.pos
	v, err := p.number()
	if err != nil {
		return 0, err
	}
	if !IsValidSpeed(v) {
		return 0, &SyntaxError{Offset: start, Msg: fmt.Sprintf("speed %d not in 0-%d or %d", v, MaxSpeed, SpeedDisabled)}
	}
	return v, nil
}

// ---- tokens ----

func (p *parser) key() (string, error) {
	p.skipSpace()
	k, err := p.str()
	if err != nil {
		return "", err
	}
	if err := p.expect(':'); err != nil {
		return "", err
	}
	return k, nil
}

func (p *parser) expectKey(want string) error {
	p.skipSpace()
	start := p.pos
	k, err := p.key()
	if err != nil {
		return err
	}
	if k != want {
		return &SyntaxError{Offset: start, Msg: fmt.Sprintf("expected key %q, got %q", want, k)}
	}
	return nil
}

// str reads a double-quoted string without escapes.
func (p *parser) str() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}
	start := p.pos
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '"':
			s := p.src[start:p.pos]
			p.pos++
			return s, nil
		case c == '\\' || c < 0x20:
			return "", p.errorf("unsupported character 0x%02x in string", c)
		}
		p.pos++
	}
	return "", p.errorf("unterminated string")
}

// number reads an unsigned decimal integer that fits in a register.
func (p *parser) number() (uint16, error) {
	p.skipSpace()
	start := p.pos
	var v uint32
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		v = v*10 + uint32(p.src[p.pos]-'0')
		if v > 0xFFFF {
			return 0, &SyntaxError{Offset: start, Msg: "number exceeds 65535"}
		}
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("expected number")
	}
	return uint16(v), nil
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return p.errorf("expected %q, got end of input", c)
	}
	if p.src[p.pos] != c {
		return p.errorf("expected %q, got %q", c, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
