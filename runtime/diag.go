package cbor

import (
	"bytes"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// DiagBytes renders the next item in b in RFC 8949 diagnostic notation and
// returns the number of bytes it spans. Only the wire forms this package
// emits are rendered; tags show their full tag number (variant tag + 6).
func DiagBytes(b []byte) (string, int, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	n, err := diagItem(bb, b, 0)
	if err != nil {
		return "", 0, err
	}
	return string(bb.Bytes()), n, nil
}

func diagItem(buf *ByteBuffer, b []byte, depth int) (int, error) {
	if depth > recursionLimit {
		return 0, ErrMaxDepthExceeded
	}
	if len(b) < 1 {
		return 0, ErrShortBytes
	}
	c := Classify(b[0])
	switch c.Kind {
	case KindSmallInt, KindSmallNegInt:
		buf.b = strconv.AppendInt(buf.b, c.Int(), 10)
		return 1, nil

	case KindUint1, KindUint2, KindUint4, KindUint8:
		width := 1 << (getAddInfo(b[0]) - addInfoUint8)
		u, err := readArg(b, width)
		if err != nil {
			return 0, err
		}
		buf.b = strconv.AppendUint(buf.b, u, 10)
		return 1 + width, nil

	case KindNegUint1, KindNegUint2, KindNegUint4, KindNegUint8:
		width := 1 << (getAddInfo(b[0]) - addInfoUint8)
		u, err := readArg(b, width)
		if err != nil {
			return 0, err
		}
		if u > math.MaxInt64 {
			// -1-u does not fit an int64.
			bi := new(big.Int).SetUint64(u)
			bi.Add(bi, big.NewInt(1)).Neg(bi)
			buf.b = bi.Append(buf.b, 10)
		} else {
			buf.b = strconv.AppendInt(buf.b, -1-int64(u), 10)
		}
		return 1 + width, nil

	case KindSmallByteString, KindByteString8:
		v, n, err := ReadBytesZC(b)
		if err != nil {
			return 0, err
		}
		buf.WriteString("h'")
		buf.Ensure(hex.EncodedLen(len(v)))
		buf.b = hex.AppendEncode(buf.b, v)
		buf.WriteByte('\'')
		return n, nil

	case KindSmallTextString, KindTextString8:
		v, n, err := readStringZC(b, "string", KindSmallTextString, KindTextString8)
		if err != nil {
			return 0, err
		}
		if !isUTF8Valid(v) {
			return 0, illFormed("string", "invalid UTF-8 in text string")
		}
		buf.b = appendDiagString(buf.b, v)
		return n, nil

	case KindSmallArray, KindArray8:
		sz, n, err := ReadArrayHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('[')
		for i := 0; i < sz; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			m, err := diagItem(buf, b[n:], depth+1)
			if err != nil {
				return 0, err
			}
			n += m
		}
		buf.WriteByte(']')
		return n, nil

	case KindSmallMap, KindMap8:
		sz, n, err := ReadMapHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('{')
		for i := 0; i < sz; i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			m, err := diagItem(buf, b[n:], depth+1) // key
			if err != nil {
				return 0, err
			}
			n += m
			buf.WriteString(": ")
			m, err = diagItem(buf, b[n:], depth+1) // value
			if err != nil {
				return 0, err
			}
			n += m
		}
		buf.WriteByte('}')
		return n, nil

	case KindTag:
		buf.b = strconv.AppendUint(buf.b, uint64(getAddInfo(b[0])), 10)
		buf.WriteByte('(')
		m, err := diagItem(buf, b[1:], depth+1)
		if err != nil {
			return 0, err
		}
		buf.WriteByte(')')
		return 1 + m, nil

	case KindBool:
		buf.b = strconv.AppendBool(buf.b, c.Bool())
		return 1, nil

	case KindFloat4:
		f, n, err := ReadFloat32Bytes(b)
		if err != nil {
			return 0, err
		}
		buf.b = appendFloatDiag(buf.b, float64(f))
		return n, nil

	case KindFloat8:
		f, n, err := ReadFloat64Bytes(b)
		if err != nil {
			return 0, err
		}
		buf.b = appendFloatDiag(buf.b, f)
		return n, nil
	}
	return 0, unexpected("item", b[0])
}

// appendFloatDiag formats f the way JSON numbers are formatted, always
// keeping a decimal point so floats stay distinguishable from integers.
func appendFloatDiag(b []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(b, "NaN"...)
	case math.IsInf(f, 1):
		return append(b, "Infinity"...)
	case math.IsInf(f, -1):
		return append(b, "-Infinity"...)
	}
	start := len(b)
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		b = strconv.AppendFloat(b, f, 'e', -1, 64)
		// e-09 -> e-9
		if n := len(b); n-start >= 4 && string(b[n-4:n-1]) == "e-0" {
			b = append(b[:n-2], b[n-1])
		}
	} else {
		b = strconv.AppendFloat(b, f, 'f', -1, 64)
	}
	num := b[start:]
	if bytes.IndexByte(num, '.') >= 0 {
		return b
	}
	if i := bytes.IndexByte(num, 'e'); i >= 0 {
		exp := string(num[i:])
		return append(append(b[:start+i], ".0"...), exp...)
	}
	return append(b, ".0"...)
}

const lowerHex = "0123456789abcdef"

// appendDiagString writes a valid UTF-8 text string as a quoted diagnostic
// string. Printable ASCII is written as is apart from the quote and
// backslash; tab, newline and carriage return get short escapes, and
// everything else becomes \uXXXX (surrogate pairs above the BMP).
func appendDiagString(dst, s []byte) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			switch {
			case c == '"', c == '\\':
				dst = append(dst, '\\', c)
			case c == '\t':
				dst = append(dst, '\\', 't')
			case c == '\n':
				dst = append(dst, '\\', 'n')
			case c == '\r':
				dst = append(dst, '\\', 'r')
			case c >= ' ' && c <= '~':
				dst = append(dst, c)
			default:
				dst = appendUnicodeEscape(dst, rune(c))
			}
			continue
		}
		r, size := utf8.DecodeRune(s[i:])
		i += size
		if r >= 0x10000 {
			r1, r2 := utf16.EncodeRune(r)
			dst = appendUnicodeEscape(dst, r1)
			dst = appendUnicodeEscape(dst, r2)
			continue
		}
		dst = appendUnicodeEscape(dst, r)
	}
	return append(dst, '"')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		lowerHex[r>>12&0xf], lowerHex[r>>8&0xf], lowerHex[r>>4&0xf], lowerHex[r&0xf])
}
