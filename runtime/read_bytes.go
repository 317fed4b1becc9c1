package cbor

import (
	"encoding/binary"
	"math"
	"strconv"
	"unicode/utf8"
)

var be = binary.BigEndian

// isUTF8Valid reports whether b is valid UTF-8.
var isUTF8Valid = func(b []byte) bool { return utf8.Valid(b) }

// readArg reads the big-endian argument of the given width that follows
// the lead byte.
func readArg(b []byte, width int) (uint64, error) {
	if len(b) < 1+width {
		return 0, ErrShortBytes
	}
	switch width {
	case 1:
		return uint64(b[1]), nil
	case 2:
		return uint64(be.Uint16(b[1:])), nil
	case 4:
		return uint64(be.Uint32(b[1:])), nil
	default:
		return be.Uint64(b[1:]), nil
	}
}

// readFixedUint reads an unsigned integer whose lead byte must classify as
// want; the argument has the given width.
func readFixedUint(b []byte, typ string, want Kind, width int) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBytes
	}
	if Classify(b[0]).Kind != want {
		return 0, 0, unexpected(typ, b[0])
	}
	u, err := readArg(b, width)
	if err != nil {
		return 0, 0, err
	}
	return u, 1 + width, nil
}

// readFixedInt reads a signed integer in the fixed-width form of either
// major type 0 or major type 1. mag is the magnitude (value or -1-value).
func readFixedInt(b []byte, typ string, pos, neg Kind, width int) (mag uint64, negative bool, n int, err error) {
	if len(b) < 1 {
		return 0, false, 0, ErrShortBytes
	}
	switch Classify(b[0]).Kind {
	case pos:
	case neg:
		negative = true
	default:
		return 0, false, 0, unexpected(typ, b[0])
	}
	mag, err = readArg(b, width)
	if err != nil {
		return 0, false, 0, err
	}
	return mag, negative, 1 + width, nil
}

func overflow(typ string, negative bool, mag uint64) error {
	v := strconv.FormatUint(mag, 10)
	if negative {
		v = "-1-" + v
	}
	return illFormed(typ, "value "+v+" overflows "+typ)
}

// readHeader reads a string length or container count. Only the inline
// form (small) and the 8-byte form (wide) are accepted.
func readHeader(b []byte, typ string, small, wide Kind) (sz int, n int, err error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBytes
	}
	c := Classify(b[0])
	switch c.Kind {
	case small:
		sz, n = c.Len(), 1
	case wide:
		u, err := readArg(b, 8)
		if err != nil {
			return 0, 0, err
		}
		if u > uint64(len(b)-9) {
			return 0, 0, ErrShortBytes
		}
		sz, n = int(u), 9
	default:
		return 0, 0, unexpected(typ, b[0])
	}
	// Every element or byte takes at least one byte, so a length beyond
	// the buffer can never be satisfied.
	if sz > len(b)-n {
		return 0, 0, ErrShortBytes
	}
	return sz, n, nil
}

// ReadBoolBytes reads a bool
func ReadBoolBytes(b []byte) (bool, int, error) {
	if len(b) < 1 {
		return false, 0, ErrShortBytes
	}
	c := Classify(b[0])
	if c.Kind != KindBool {
		return false, 0, unexpected("bool", b[0])
	}
	return c.Bool(), 1, nil
}

// ReadUint8Bytes reads a uint8 from the single-byte or 1-byte-follows form.
func ReadUint8Bytes(b []byte) (uint8, int, error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBytes
	}
	c := Classify(b[0])
	switch c.Kind {
	case KindSmallInt:
		return c.Arg, 1, nil
	case KindUint1:
		if len(b) < 2 {
			return 0, 0, ErrShortBytes
		}
		return b[1], 2, nil
	}
	return 0, 0, unexpected("uint8", b[0])
}

// ReadUint16Bytes reads a uint16
func ReadUint16Bytes(b []byte) (uint16, int, error) {
	u, n, err := readFixedUint(b, "uint16", KindUint2, 2)
	return uint16(u), n, err
}

// ReadUint32Bytes reads a uint32
func ReadUint32Bytes(b []byte) (uint32, int, error) {
	u, n, err := readFixedUint(b, "uint32", KindUint4, 4)
	return uint32(u), n, err
}

// ReadUint64Bytes reads a uint64
func ReadUint64Bytes(b []byte) (uint64, int, error) {
	return readFixedUint(b, "uint64", KindUint8, 8)
}

// ReadUintBytes reads a uint
func ReadUintBytes(b []byte) (uint, int, error) {
	u, n, err := readFixedUint(b, "uint", KindUint8, 8)
	if err != nil {
		return 0, 0, err
	}
	if u > math.MaxUint {
		return 0, 0, overflow("uint", false, u)
	}
	return uint(u), n, nil
}

// ReadInt8Bytes reads an int8 from any of the four forms AppendInt8 emits.
func ReadInt8Bytes(b []byte) (int8, int, error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBytes
	}
	c := Classify(b[0])
	switch c.Kind {
	case KindSmallInt, KindSmallNegInt:
		return int8(c.Int()), 1, nil
	case KindUint1:
		if len(b) < 2 {
			return 0, 0, ErrShortBytes
		}
		if b[1] > math.MaxInt8 {
			return 0, 0, overflow("int8", false, uint64(b[1]))
		}
		return int8(b[1]), 2, nil
	case KindNegUint1:
		if len(b) < 2 {
			return 0, 0, ErrShortBytes
		}
		if b[1] > math.MaxInt8 {
			return 0, 0, overflow("int8", true, uint64(b[1]))
		}
		return -1 - int8(b[1]), 2, nil
	}
	return 0, 0, unexpected("int8", b[0])
}

// ReadInt16Bytes reads an int16
func ReadInt16Bytes(b []byte) (int16, int, error) {
	mag, neg, n, err := readFixedInt(b, "int16", KindUint2, KindNegUint2, 2)
	if err != nil {
		return 0, 0, err
	}
	if mag > math.MaxInt16 {
		return 0, 0, overflow("int16", neg, mag)
	}
	if neg {
		return -1 - int16(mag), n, nil
	}
	return int16(mag), n, nil
}

// ReadInt32Bytes reads an int32
func ReadInt32Bytes(b []byte) (int32, int, error) {
	mag, neg, n, err := readFixedInt(b, "int32", KindUint4, KindNegUint4, 4)
	if err != nil {
		return 0, 0, err
	}
	if mag > math.MaxInt32 {
		return 0, 0, overflow("int32", neg, mag)
	}
	if neg {
		return -1 - int32(mag), n, nil
	}
	return int32(mag), n, nil
}

// ReadInt64Bytes reads an int64
func ReadInt64Bytes(b []byte) (int64, int, error) {
	return readInt64(b, "int64")
}

// ReadIntBytes reads an int
func ReadIntBytes(b []byte) (int, int, error) {
	i, n, err := readInt64(b, "int")
	if err != nil {
		return 0, 0, err
	}
	if i > math.MaxInt || i < math.MinInt {
		return 0, 0, illFormed("int", "value "+strconv.FormatInt(i, 10)+" overflows int")
	}
	return int(i), n, nil
}

func readInt64(b []byte, typ string) (int64, int, error) {
	mag, neg, n, err := readFixedInt(b, typ, KindUint8, KindNegUint8, 8)
	if err != nil {
		return 0, 0, err
	}
	if mag > math.MaxInt64 {
		return 0, 0, overflow(typ, neg, mag)
	}
	if neg {
		return -1 - int64(mag), n, nil
	}
	return int64(mag), n, nil
}

// ReadFloat32Bytes reads a float32
func ReadFloat32Bytes(b []byte) (float32, int, error) {
	u, n, err := readFixedUint(b, "float32", KindFloat4, 4)
	return math.Float32frombits(uint32(u)), n, err
}

// ReadFloat64Bytes reads a float64
func ReadFloat64Bytes(b []byte) (float64, int, error) {
	u, n, err := readFixedUint(b, "float64", KindFloat8, 8)
	return math.Float64frombits(u), n, err
}

// ReadBytesZC reads a byte string zero-copy; the returned slice aliases b.
func ReadBytesZC(b []byte) (v []byte, n int, err error) {
	return readStringZC(b, "[]byte", KindSmallByteString, KindByteString8)
}

// ReadBytesBytes reads a byte string into a newly allocated slice.
func ReadBytesBytes(b []byte) ([]byte, int, error) {
	v, n, err := ReadBytesZC(b)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, n, nil
}

// ReadStringBytes reads a text string. Invalid UTF-8 is ill-formed.
func ReadStringBytes(b []byte) (string, int, error) {
	v, n, err := readStringZC(b, "string", KindSmallTextString, KindTextString8)
	if err != nil {
		return "", 0, err
	}
	if !isUTF8Valid(v) {
		return "", 0, illFormed("string", "invalid UTF-8 in text string")
	}
	return string(v), n, nil
}

func readStringZC(b []byte, typ string, small, wide Kind) ([]byte, int, error) {
	sz, start, err := readHeader(b, typ, small, wide)
	if err != nil {
		return nil, 0, err
	}
	end := start + sz
	return b[start:end], end, nil
}

// ReadArrayHeaderBytes reads an array header and returns the element count.
func ReadArrayHeaderBytes(b []byte) (sz int, n int, err error) {
	return readHeader(b, "array", KindSmallArray, KindArray8)
}

// ReadMapHeaderBytes reads a map header and returns the pair count.
func ReadMapHeaderBytes(b []byte) (sz int, n int, err error) {
	sz, n, err = readHeader(b, "map", KindSmallMap, KindMap8)
	if err != nil {
		return 0, 0, err
	}
	if sz > (len(b)-n)/2 {
		return 0, 0, ErrShortBytes
	}
	return sz, n, nil
}

// ReadTagBytes reads the lead byte of a union variant and returns its
// relative tag number.
func ReadTagBytes(b []byte) (tag uint8, n int, err error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBytes
	}
	c := Classify(b[0])
	if c.Kind != KindTag {
		return 0, 0, unexpected("tag", b[0])
	}
	return c.Tag(), 1, nil
}
