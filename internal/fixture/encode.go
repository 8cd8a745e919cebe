package fixture

import (
	"strconv"
	"strings"
)

// EncodeValue renders a Value back into the JSON dialect with minimal
// separators and no insignificant whitespace. Decoding the result yields a
// value equal to the input; tests rely on this round trip to pin the decoder
// down.
func EncodeValue(v Value) []byte {
	var sb strings.Builder
	encodeValue(&sb, v)
	return []byte(sb.String())
}

func encodeValue(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case Null:
		sb.WriteString("null")
	case Bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case String:
		encodeString(sb, string(val))
	case Array:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeValue(sb, elem)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, m := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			encodeString(sb, m.Key)
			sb.WriteByte(':')
			encodeValue(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

func encodeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0x08:
			sb.WriteString(`\b`)
		case 0x0C:
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				const hex = "0123456789abcdef"
				sb.WriteByte('0')
				sb.WriteByte('0')
				sb.WriteByte(hex[(r>>4)&0xF])
				sb.WriteByte(hex[r&0xF])
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
