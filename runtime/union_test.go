package cbor_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

type shape interface{ isShape() }

type circle struct{ R float64 }
type label string

func (circle) isShape() {}
func (label) isShape() {}

var shapeCodec = cbor.NewUnion[shape]("shape",
	cbor.Variant(0, "circle", cbor.Float64,
		func(r float64) shape { return circle{R: r} },
		func(s shape) (float64, bool) { c, ok := s.(circle); return c.R, ok }),
	cbor.Variant(3, "label", cbor.String,
		func(s string) shape { return label(s) },
		func(s shape) (string, bool) { l, ok := s.(label); return string(l), ok }),
)

func TestUnionRoundTrip(t *testing.T) {
	cases := []struct {
		v    shape
		want string
	}{
		{circle{R: 1.5}, "c6fb3ff8000000000000"},
		{label("hi"), "c9626869"},
	}
	for _, tc := range cases {
		b := roundTrip[shape](t, shapeCodec, tc.v)
		if got := hex.EncodeToString(b); got != tc.want {
			t.Fatalf("%v: got %s want %s", tc.v, got, tc.want)
		}
	}
	if diff := cmp.Diff([]uint8{0, 3}, shapeCodec.Tags()); diff != "" {
		t.Fatalf("tags (-want +got):\n%s", diff)
	}
}

func TestUnionInsideContainers(t *testing.T) {
	v := map[string]shape{"a": circle{R: 2}, "b": label("x")}
	roundTrip(t, cbor.MapOf(cbor.String, cbor.Codec[shape](shapeCodec)), v)
}

func TestUnionUnknownTag(t *testing.T) {
	// tag 1 is in range but not registered
	_, err := cbor.Decode[shape](shapeCodec, []byte{0xc7, 0x01})
	if !cbor.IsUnexpected(err) {
		t.Fatalf("got %v, want unexpected", err)
	}
	if !strings.Contains(err.Error(), "registered: 0, 3") {
		t.Fatalf("error %q does not name the legal tags", err)
	}
	// not a tag at all
	_, err = cbor.Decode[shape](shapeCodec, []byte{0x01})
	if !cbor.IsUnexpected(err) {
		t.Fatalf("got %v, want unexpected", err)
	}
	// unsupported tag class
	_, err = cbor.Decode[shape](shapeCodec, []byte{0xc2, 0x41, 0x01})
	if !cbor.IsUnexpected(err) {
		t.Fatalf("got %v, want unexpected", err)
	}
}

func TestUnionPayloadErrorNamesVariant(t *testing.T) {
	_, err := cbor.Decode[shape](shapeCodec, []byte{0xc9, 0x62, 0xc3, 0x28})
	if !cbor.IsIllFormed(err) {
		t.Fatalf("got %v, want ill-formed", err)
	}
	if !strings.Contains(err.Error(), "shape.label") {
		t.Fatalf("error %q does not name the variant", err)
	}
}

type square struct{}

func (square) isShape() {}

func TestUnionEncodeUnmatched(t *testing.T) {
	if _, err := cbor.Encode[shape](shapeCodec, square{}); !cbor.IsUnexpected(err) {
		t.Fatalf("got %v, want unexpected", err)
	}
	if _, err := cbor.Encode[shape](shapeCodec, nil); !cbor.IsUnexpected(err) {
		t.Fatalf("nil: got %v, want unexpected", err)
	}
}

func TestUnionRegistrationPanics(t *testing.T) {
	mustPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		f()
	}
	wrap := func(r float64) shape { return circle{R: r} }
	unwrap := func(s shape) (float64, bool) { c, ok := s.(circle); return c.R, ok }

	mustPanic("duplicate tag", func() {
		cbor.NewUnion[shape]("dup",
			cbor.Variant(1, "a", cbor.Float64, wrap, unwrap),
			cbor.Variant(1, "b", cbor.Float64, wrap, unwrap))
	})
	mustPanic("tag out of range", func() {
		cbor.NewUnion[shape]("range", cbor.Variant(cbor.MaxVariantTag+1, "a", cbor.Float64, wrap, unwrap))
	})
	mustPanic("nil hook", func() {
		cbor.Variant[shape, float64](0, "a", cbor.Float64, nil, unwrap)
	})
	mustPanic("zero variant", func() {
		cbor.NewUnion[shape]("zero", cbor.VariantDef[shape]{})
	})
}
