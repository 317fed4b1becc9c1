// Package benchmarks compares encoding and decoding of a large int32
// sequence across this runtime, fxamacker/cbor and tinylib/msgp.
package benchmarks

import (
	"fmt"

	fxcbor "github.com/fxamacker/cbor/v2"
	msgp "github.com/tinylib/msgp/msgp"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

// DefaultLen is the number of elements in the benchmark sequence.
const DefaultLen = 1_000_000

// Int32Sequence returns n values covering every int32 encoding width used
// by the formats under comparison.
func Int32Sequence(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		switch i % 4 {
		case 0:
			out[i] = int32(i % 24)
		case 1:
			out[i] = -int32(i % 200)
		case 2:
			out[i] = int32(i) * 1021
		default:
			out[i] = -int32(i) * 7919
		}
	}
	return out
}

// SeqCodec is one contender: it appends the encoding of a sequence to dst
// and decodes a sequence back.
type SeqCodec struct {
	Name   string
	Encode func(dst []byte, v []int32) ([]byte, error)
	Decode func(b []byte) ([]int32, error)
}

// EncodedLen is the exact size of v under this runtime's fixed-width
// int32 layout.
func EncodedLen(v []int32) int {
	return cbor.HeaderSize(len(v)) + len(v)*cbor.Int32Size
}

var int32s = cbor.SliceOf(cbor.Int32)

// SeqCodecs returns the contenders in report order.
func SeqCodecs() []SeqCodec {
	return []SeqCodec{
		{
			Name:   "ezcbor (SliceOf codec)",
			Encode: int32s.AppendCBOR,
			Decode: func(b []byte) ([]int32, error) { return cbor.DecodeExact(int32s, b) },
		},
		{
			Name:   "ezcbor (Append/Read loop)",
			Encode: appendLoop,
			Decode: readLoop,
		},
		{
			Name: "fxamacker/cbor",
			Encode: func(dst []byte, v []int32) ([]byte, error) {
				b, err := fxcbor.Marshal(v)
				return append(dst, b...), err
			},
			Decode: func(b []byte) ([]int32, error) {
				var out []int32
				err := fxcbor.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			Name:   "tinylib/msgp",
			Encode: msgpAppend,
			Decode: msgpRead,
		},
	}
}

func appendLoop(dst []byte, v []int32) ([]byte, error) {
	dst = cbor.AppendArrayHeader(dst, len(v))
	for _, x := range v {
		dst = cbor.AppendInt32(dst, x)
	}
	return dst, nil
}

func readLoop(b []byte) ([]int32, error) {
	sz, off, err := cbor.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, err
	}
	out := make([]int32, sz)
	for i := range out {
		v, n, err := cbor.ReadInt32Bytes(b[off:])
		if err != nil {
			return nil, cbor.WrapError(err, i)
		}
		out[i] = v
		off += n
	}
	if off != len(b) {
		return nil, cbor.ErrTrailingBytes
	}
	return out, nil
}

func msgpAppend(dst []byte, v []int32) ([]byte, error) {
	dst = msgp.AppendArrayHeader(dst, uint32(len(v)))
	for _, x := range v {
		dst = msgp.AppendInt32(dst, x)
	}
	return dst, nil
}

func msgpRead(b []byte) ([]int32, error) {
	sz, rest, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, err
	}
	out := make([]int32, sz)
	for i := range out {
		out[i], rest, err = msgp.ReadInt32Bytes(rest)
		if err != nil {
			return nil, err
		}
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("msgp: %d trailing bytes", len(rest))
	}
	return out, nil
}
