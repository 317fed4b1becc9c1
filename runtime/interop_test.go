package cbor_test

import (
	"math"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

// fxDecode decodes b with fxamacker into a fresh T.
func fxDecode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := fxcbor.Unmarshal(b, &v); err != nil {
		t.Fatalf("fxamacker rejected %x: %v", b, err)
	}
	return v
}

func oracle[T any](t *testing.T, c cbor.Codec[T], v T) {
	t.Helper()
	b, err := cbor.Encode(c, v)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(v, fxDecode[T](t, b), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("fxamacker reads %x differently (-ours +theirs):\n%s", b, diff)
	}
}

// TestEncodingsReadableByFxamacker checks that every encoding is standard
// CBOR by decoding it with an independent implementation.
func TestEncodingsReadableByFxamacker(t *testing.T) {
	oracle(t, cbor.Bool, true)
	oracle(t, cbor.Uint8, 200)
	oracle(t, cbor.Uint16, 7)
	oracle(t, cbor.Uint32, math.MaxUint32)
	oracle(t, cbor.Uint64, math.MaxUint64)
	oracle(t, cbor.Int8, -24)
	oracle(t, cbor.Int8, -25)
	oracle(t, cbor.Int8, math.MinInt8)
	oracle(t, cbor.Int16, math.MinInt16)
	oracle(t, cbor.Int32, -1)
	oracle(t, cbor.Int32, math.MinInt32)
	oracle(t, cbor.Int64, math.MinInt64)
	oracle(t, cbor.Int, 12345)
	oracle(t, cbor.Float32, -3.25)
	oracle(t, cbor.Float64, math.Pi)
	oracle(t, cbor.String, "value number 0")
	oracle(t, cbor.String, "a string well beyond twenty three bytes")
	oracle(t, cbor.Bytes, []byte{0, 1, 2})
	oracle(t, cbor.SliceOf(cbor.Int32), []int32{1, 2, 3})
	oracle(t, cbor.SliceOf(cbor.Float32), make([]float32, 40))
	oracle(t, cbor.MapOf(cbor.Int32, cbor.String), map[int32]string{0: "value number 0", 1: "value number 1"})
	oracle(t, cbor.SortedMapOf(cbor.String, cbor.SliceOf(cbor.Int64)), map[string][]int64{"a": {-1}, "b": {}})
}

func TestVariantIsTaggedItem(t *testing.T) {
	b, err := cbor.Encode[shape](shapeCodec, label("hi"))
	if err != nil {
		t.Fatal(err)
	}
	tag := fxDecode[fxcbor.RawTag](t, b)
	if tag.Number != 9 {
		t.Fatalf("tag number %d, want 9", tag.Number)
	}
	var s string
	if err := fxcbor.Unmarshal(tag.Content, &s); err != nil || s != "hi" {
		t.Fatalf("content %q, %v", s, err)
	}
}

// TestFxamackerMinimalFormsRejected shows where strictness differs from a
// general decoder: preferred-serialization integers wider types never emit
// are refused.
func TestFxamackerMinimalFormsRejected(t *testing.T) {
	b, err := fxcbor.Marshal(int32(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cbor.Decode(cbor.Int32, b); !cbor.IsUnexpected(err) {
		t.Fatalf("got %v, want unexpected for %x", err, b)
	}

	// Small values and short strings coincide with preferred serialization.
	b, err = fxcbor.Marshal(uint8(5))
	if err != nil {
		t.Fatal(err)
	}
	if v, err := cbor.Decode(cbor.Uint8, b); err != nil || v != 5 {
		t.Fatalf("uint8: %v %v", v, err)
	}
	b, err = fxcbor.Marshal([]string{"a", "bc"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := cbor.DecodeExact(cbor.SliceOf(cbor.String), b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "bc"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
