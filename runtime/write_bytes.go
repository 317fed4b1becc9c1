package cbor

import (
	"encoding/binary"
	"math"
)

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendFixed8 appends a lead byte followed by u as 8 big-endian bytes.
func appendFixed8(b []byte, lead byte, u uint64) []byte {
	o, n := ensure(b, 9)
	o[n] = lead
	binary.BigEndian.PutUint64(o[n+1:], u)
	return o
}

// appendHeader encodes a length or count for the given major type. Only two
// forms are produced: the inline form for 0..23 and the 8-byte form above.
func appendHeader(b []byte, majorType uint8, sz int) []byte {
	if sz <= addInfoDirect {
		return append(b, makeByte(majorType, uint8(sz)))
	}
	return appendFixed8(b, makeByte(majorType, addInfoUint64), uint64(sz))
}

// AppendArrayHeader appends an array header with the given element count.
func AppendArrayHeader(b []byte, sz int) []byte {
	return appendHeader(b, majorTypeArray, sz)
}

// AppendMapHeader appends a map header with the given pair count.
func AppendMapHeader(b []byte, sz int) []byte {
	return appendHeader(b, majorTypeMap, sz)
}

// AppendTag appends the lead byte of a union variant with the relative tag
// number tag. It panics if tag exceeds MaxVariantTag.
func AppendTag(b []byte, tag uint8) []byte {
	if tag > MaxVariantTag {
		panic("cbor: variant tag out of range")
	}
	return append(b, tagBase+tag)
}

// AppendBool appends a bool
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, makeByte(majorTypeSimple, simpleTrue))
	}
	return append(b, makeByte(majorTypeSimple, simpleFalse))
}

// AppendUint8 appends a uint8. Values below 24 use the single-byte form.
func AppendUint8(b []byte, u uint8) []byte {
	if u <= addInfoDirect {
		return append(b, makeByte(majorTypeUint, u))
	}
	return append(b, makeByte(majorTypeUint, addInfoUint8), u)
}

// AppendUint16 appends a uint16, always in the 2-byte form.
func AppendUint16(b []byte, u uint16) []byte {
	o, n := ensure(b, 3)
	o[n] = makeByte(majorTypeUint, addInfoUint16)
	binary.BigEndian.PutUint16(o[n+1:], u)
	return o
}

// AppendUint32 appends a uint32, always in the 4-byte form.
func AppendUint32(b []byte, u uint32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeUint, addInfoUint32)
	binary.BigEndian.PutUint32(o[n+1:], u)
	return o
}

// AppendUint64 appends a uint64, always in the 8-byte form.
func AppendUint64(b []byte, u uint64) []byte {
	return appendFixed8(b, makeByte(majorTypeUint, addInfoUint64), u)
}

// AppendUint appends a uint
func AppendUint(b []byte, u uint) []byte {
	return AppendUint64(b, uint64(u))
}

// AppendInt8 appends an int8. Like uint8, it is the one signed width that
// uses the inline forms: 0..23 and -1..-24 take a single byte.
func AppendInt8(b []byte, i int8) []byte {
	if i >= 0 {
		return AppendUint8(b, uint8(i))
	}
	n := uint8(-1 - i) // value = -1-n
	if n <= addInfoDirect {
		return append(b, makeByte(majorTypeNegInt, n))
	}
	return append(b, makeByte(majorTypeNegInt, addInfoUint8), n)
}

// AppendInt16 appends an int16 in the 2-byte form of its major type.
func AppendInt16(b []byte, i int16) []byte {
	if i >= 0 {
		return AppendUint16(b, uint16(i))
	}
	o, n := ensure(b, 3)
	o[n] = makeByte(majorTypeNegInt, addInfoUint16)
	binary.BigEndian.PutUint16(o[n+1:], uint16(-1-i))
	return o
}

// AppendInt32 appends an int32 in the 4-byte form of its major type.
func AppendInt32(b []byte, i int32) []byte {
	if i >= 0 {
		return AppendUint32(b, uint32(i))
	}
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeNegInt, addInfoUint32)
	binary.BigEndian.PutUint32(o[n+1:], uint32(-1-i))
	return o
}

// AppendInt64 appends an int64 in the 8-byte form of its major type.
func AppendInt64(b []byte, i int64) []byte {
	if i >= 0 {
		return AppendUint64(b, uint64(i))
	}
	return appendFixed8(b, makeByte(majorTypeNegInt, addInfoUint64), uint64(-1-i))
}

// AppendInt appends an int
func AppendInt(b []byte, i int) []byte {
	return AppendInt64(b, int64(i))
}

// AppendFloat32 appends a float32
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(majorTypeSimple, simpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat64 appends a float64
func AppendFloat64(b []byte, f float64) []byte {
	return appendFixed8(b, makeByte(majorTypeSimple, simpleFloat64), math.Float64bits(f))
}

// AppendBytes appends a byte string
func AppendBytes(b []byte, data []byte) []byte {
	b = appendHeader(b, majorTypeBytes, len(data))
	return append(b, data...)
}

// AppendString appends a text string. The bytes of s are written as is;
// use the String codec to reject invalid UTF-8.
func AppendString(b []byte, s string) []byte {
	b = appendHeader(b, majorTypeText, len(s))
	return append(b, s...)
}
