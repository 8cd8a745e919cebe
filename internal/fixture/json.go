package fixture

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError reports where and why JSON-dialect decoding failed. Offset is
// the byte position in the input at the point of failure.
type ParseError struct {
	Message string
	Offset  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

// DecodeValue decodes a complete JSON-dialect document. The whole input is
// consumed eagerly; trailing non-whitespace bytes are an error. The only
// error type returned is *ParseError.
func DecodeValue(input []byte) (Value, error) {
	d := &decoder{input: input}
	d.skipSpace()
	v, err := d.decodeValue()
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.pos != len(d.input) {
		return nil, d.errorf("trailing characters")
	}
	return v, nil
}

// DecodeFile reads and decodes a fixture file. I/O errors are returned as-is
// and are distinguishable from *ParseError decode errors.
func DecodeFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeValue(data)
}

type decoder struct {
	input []byte
	pos   int
}

func (d *decoder) errorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Offset: d.pos}
}

func (d *decoder) peek() (byte, bool) {
	if d.pos >= len(d.input) {
		return 0, false
	}
	return d.input[d.pos], true
}

func (d *decoder) next() (byte, bool) {
	b, ok := d.peek()
	if ok {
		d.pos++
	}
	return b, ok
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.input) {
		switch d.input[d.pos] {
		case ' ', '\t', '\r', '\n':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) literal(lit string, v Value) (Value, error) {
	if !strings.HasPrefix(string(d.input[d.pos:]), lit) {
		return nil, d.errorf("expected %s", lit)
	}
	d.pos += len(lit)
	return v, nil
}

func (d *decoder) decodeValue() (Value, error) {
	d.skipSpace()
	b, ok := d.peek()
	if !ok {
		return nil, d.errorf("unexpected end of input")
	}
	switch {
	case b == 'n':
		return d.literal("null", Null{})
	case b == 't':
		return d.literal("true", Bool(true))
	case b == 'f':
		return d.literal("false", Bool(false))
	case b == '-' || (b >= '0' && b <= '9'):
		return d.decodeNumber()
	case b == '"':
		s, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case b == '[':
		return d.decodeArray()
	case b == '{':
		return d.decodeObject()
	default:
		return nil, d.errorf("unexpected character %q", b)
	}
}

// decodeNumber accepts an optionally signed run of digits. A following '.',
// 'e', or 'E' is a hard error: the fixture corpus never contains fractional
// numbers, and truncating one would hide corruption.
func (d *decoder) decodeNumber() (Value, error) {
	start := d.pos
	if b, ok := d.peek(); ok && b == '-' {
		d.pos++
	}
	sawDigit := false
	for {
		b, ok := d.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		sawDigit = true
		d.pos++
	}
	if !sawDigit {
		return nil, d.errorf("expected digits")
	}
	if b, ok := d.peek(); ok && (b == '.' || b == 'e' || b == 'E') {
		return nil, d.errorf("non-integer numbers not supported")
	}
	n, err := strconv.ParseInt(string(d.input[start:d.pos]), 10, 64)
	if err != nil {
		return nil, d.errorf("invalid number %q", d.input[start:d.pos])
	}
	return Int(n), nil
}

func (d *decoder) decodeString() (string, error) {
	if b, ok := d.next(); !ok || b != '"' {
		return "", d.errorf(`expected '"'`)
	}
	var sb strings.Builder
	for {
		b, ok := d.next()
		if !ok {
			return "", d.errorf("unexpected end of input in string")
		}
		switch {
		case b == '"':
			return sb.String(), nil
		case b == '\\':
			if err := d.decodeEscape(&sb); err != nil {
				return "", err
			}
		case b < 0x20:
			return "", d.errorf("control character in string")
		default:
			sb.WriteByte(b)
		}
	}
}

func (d *decoder) decodeEscape(sb *strings.Builder) error {
	b, ok := d.next()
	if !ok {
		return d.errorf("unexpected end of input in escape")
	}
	switch b {
	case '"', '\\', '/':
		sb.WriteByte(b)
	case 'b':
		sb.WriteByte(0x08)
	case 'f':
		sb.WriteByte(0x0C)
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		return d.decodeUnicodeEscape(sb)
	default:
		return d.errorf("unknown escape %q", b)
	}
	return nil
}

// decodeUnicodeEscape handles \uXXXX, combining UTF-16 surrogate pairs into
// a single code point. A lone high surrogate, or a high surrogate followed
// by anything other than a valid low surrogate, is an error rather than a
// replacement character.
func (d *decoder) decodeUnicodeEscape(sb *strings.Builder) error {
	hi, err := d.hex4()
	if err != nil {
		return err
	}
	if hi >= 0xD800 && hi <= 0xDBFF {
		if b, ok := d.next(); !ok || b != '\\' {
			return d.errorf("expected low surrogate")
		}
		if b, ok := d.next(); !ok || b != 'u' {
			return d.errorf("expected low surrogate")
		}
		lo, err := d.hex4()
		if err != nil {
			return err
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return d.errorf("invalid low surrogate")
		}
		cp := 0x10000 + ((rune(hi) - 0xD800) << 10) + (rune(lo) - 0xDC00)
		sb.WriteRune(cp)
		return nil
	}
	if hi >= 0xDC00 && hi <= 0xDFFF {
		return d.errorf("unpaired low surrogate")
	}
	if !utf8.ValidRune(rune(hi)) {
		return d.errorf("invalid code point")
	}
	sb.WriteRune(rune(hi))
	return nil
}

func (d *decoder) hex4() (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		b, ok := d.next()
		if !ok {
			return 0, d.errorf(`unexpected end of input in \u escape`)
		}
		var n uint16
		switch {
		case b >= '0' && b <= '9':
			n = uint16(b - '0')
		case b >= 'a' && b <= 'f':
			n = uint16(b-'a') + 10
		case b >= 'A' && b <= 'F':
			n = uint16(b-'A') + 10
		default:
			return 0, d.errorf("invalid hex digit %q", b)
		}
		v = v<<4 | n
	}
	return v, nil
}

func (d *decoder) decodeArray() (Value, error) {
	d.pos++ // '['
	arr := Array{}
	d.skipSpace()
	if b, ok := d.peek(); ok && b == ']' {
		d.pos++
		return arr, nil
	}
	for {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		d.skipSpace()
		b, ok := d.next()
		if !ok {
			return nil, d.errorf("unexpected end of input in array")
		}
		switch b {
		case ',':
			continue
		case ']':
			return arr, nil
		default:
			return nil, d.errorf("expected ',' or ']'")
		}
	}
}

func (d *decoder) decodeObject() (Value, error) {
	d.pos++ // '{'
	obj := Object{}
	d.skipSpace()
	if b, ok := d.peek(); ok && b == '}' {
		d.pos++
		return obj, nil
	}
	for {
		d.skipSpace()
		key, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		d.skipSpace()
		if b, ok := d.next(); !ok || b != ':' {
			return nil, d.errorf("expected ':'")
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		obj = append(obj, Member{Key: key, Value: v})
		d.skipSpace()
		b, ok := d.next()
		if !ok {
			return nil, d.errorf("unexpected end of input in object")
		}
		switch b {
		case ',':
			continue
		case '}':
			return obj, nil
		default:
			return nil, d.errorf("expected ',' or '}'")
		}
	}
}
