package cbor_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// fixture checks that c encodes v as want and that want decodes back to v
// consuming every byte.
func fixture[T comparable](t *testing.T, c cbor.Codec[T], v T, want string) {
	t.Helper()
	b, err := cbor.Encode(c, v)
	if err != nil {
		t.Fatalf("encode %v: %v", v, err)
	}
	if got := hex.EncodeToString(b); got != want {
		t.Fatalf("encode %v: got %s want %s", v, got, want)
	}
	got, n, err := c.ReadCBOR(b)
	if err != nil {
		t.Fatalf("decode %s: %v", want, err)
	}
	if n != len(b) {
		t.Fatalf("decode %s: consumed %d of %d bytes", want, n, len(b))
	}
	if got != v {
		t.Fatalf("decode %s: got %v want %v", want, got, v)
	}
}

func TestScalarEncodings(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		fixture(t, cbor.Bool, false, "f4")
		fixture(t, cbor.Bool, true, "f5")
	})
	t.Run("uint8", func(t *testing.T) {
		fixture(t, cbor.Uint8, 0, "00")
		fixture(t, cbor.Uint8, 23, "17")
		fixture(t, cbor.Uint8, 24, "1818")
		fixture(t, cbor.Uint8, math.MaxUint8, "18ff")
	})
	t.Run("uint16", func(t *testing.T) {
		fixture(t, cbor.Uint16, 0, "190000")
		fixture(t, cbor.Uint16, 1000, "1903e8")
		fixture(t, cbor.Uint16, math.MaxUint16, "19ffff")
	})
	t.Run("uint32", func(t *testing.T) {
		fixture(t, cbor.Uint32, 1, "1a00000001")
		fixture(t, cbor.Uint32, math.MaxUint32, "1affffffff")
	})
	t.Run("uint64", func(t *testing.T) {
		fixture(t, cbor.Uint64, 1, "1b0000000000000001")
		fixture(t, cbor.Uint64, math.MaxUint64, "1bffffffffffffffff")
		fixture(t, cbor.Uint, 42, "1b000000000000002a")
	})
	t.Run("int8", func(t *testing.T) {
		fixture(t, cbor.Int8, 0, "00")
		fixture(t, cbor.Int8, 10, "0a")
		fixture(t, cbor.Int8, 23, "17")
		fixture(t, cbor.Int8, 24, "1818")
		fixture(t, cbor.Int8, math.MaxInt8, "187f")
		fixture(t, cbor.Int8, -1, "20")
		fixture(t, cbor.Int8, -24, "37")
		fixture(t, cbor.Int8, -25, "3818")
		fixture(t, cbor.Int8, math.MinInt8, "387f")
	})
	t.Run("int16", func(t *testing.T) {
		fixture(t, cbor.Int16, 300, "19012c")
		fixture(t, cbor.Int16, -1, "390000")
		fixture(t, cbor.Int16, -500, "3901f3")
		fixture(t, cbor.Int16, math.MaxInt16, "197fff")
		fixture(t, cbor.Int16, math.MinInt16, "397fff")
	})
	t.Run("int32", func(t *testing.T) {
		fixture(t, cbor.Int32, 1, "1a00000001")
		fixture(t, cbor.Int32, -1, "3a00000000")
		fixture(t, cbor.Int32, math.MaxInt32, "1a7fffffff")
		fixture(t, cbor.Int32, math.MinInt32, "3a7fffffff")
	})
	t.Run("int64", func(t *testing.T) {
		fixture(t, cbor.Int64, -1, "3b0000000000000000")
		fixture(t, cbor.Int64, math.MaxInt64, "1b7fffffffffffffff")
		fixture(t, cbor.Int64, math.MinInt64, "3b7fffffffffffffff")
		fixture(t, cbor.Int, -2, "3b0000000000000001")
	})
	t.Run("float", func(t *testing.T) {
		fixture(t, cbor.Float32, 1.5, "fa3fc00000")
		fixture(t, cbor.Float32, float32(math.Inf(-1)), "faff800000")
		fixture(t, cbor.Float64, 1.1, "fb3ff199999999999a")
		fixture(t, cbor.Float64, math.MaxFloat64, "fb7fefffffffffffff")
	})
	t.Run("string", func(t *testing.T) {
		fixture(t, cbor.String, "", "60")
		fixture(t, cbor.String, "abc", "63616263")
		fixture(t, cbor.String, "ü", "62c3bc")
	})
}

func TestFloatNaNRoundTrip(t *testing.T) {
	b, err := cbor.Encode(cbor.Float64, math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	f, err := cbor.Decode(cbor.Float64, b)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(f) {
		t.Fatalf("got %v, want NaN", f)
	}
}

func TestLengthThreshold(t *testing.T) {
	for _, sz := range []int{0, 1, 23, 24, 25, 300} {
		s := string(bytes.Repeat([]byte{'x'}, sz))
		b, err := cbor.Encode(cbor.String, s)
		if err != nil {
			t.Fatal(err)
		}
		wantHdr := 1
		if sz > 23 {
			wantHdr = 9
			if b[0] != 0x7b {
				t.Fatalf("len %d: lead 0x%02x, want 0x7b", sz, b[0])
			}
		} else if b[0] != 0x60+byte(sz) {
			t.Fatalf("len %d: lead 0x%02x, want 0x%02x", sz, b[0], 0x60+sz)
		}
		if len(b) != wantHdr+sz || len(b) != cbor.StringSize(s) {
			t.Fatalf("len %d: encoded size %d", sz, len(b))
		}
		got, err := cbor.DecodeExact(cbor.String, b)
		if err != nil || got != s {
			t.Fatalf("len %d: round trip failed: %v", sz, err)
		}

		raw := bytes.Repeat([]byte{0xab}, sz)
		b, err = cbor.Encode(cbor.Bytes, raw)
		if err != nil {
			t.Fatal(err)
		}
		if sz > 23 && b[0] != 0x5b || sz <= 23 && b[0] != 0x40+byte(sz) {
			t.Fatalf("bytes len %d: lead 0x%02x", sz, b[0])
		}
		gotRaw, err := cbor.DecodeExact(cbor.Bytes, b)
		if err != nil || !bytes.Equal(gotRaw, raw) {
			t.Fatalf("bytes len %d: round trip failed: %v", sz, err)
		}
	}
}

func TestWideLengthLayout(t *testing.T) {
	b := cbor.AppendString(nil, "abcdefghijklmnopqrstuvwxyz")
	want := "7b000000000000001a" + hex.EncodeToString([]byte("abcdefghijklmnopqrstuvwxyz"))
	if got := hex.EncodeToString(b); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestStrictDecodeRejectsForeignForms(t *testing.T) {
	cases := []struct {
		name string
		read func([]byte) error
		in   string
	}{
		{"uint16 from small int", func(b []byte) error { _, _, err := cbor.ReadUint16Bytes(b); return err }, "0a"},
		{"uint8 from uint16", func(b []byte) error { _, _, err := cbor.ReadUint8Bytes(b); return err }, "190001"},
		{"uint32 from uint64", func(b []byte) error { _, _, err := cbor.ReadUint32Bytes(b); return err }, "1b0000000000000001"},
		{"uint64 from negint", func(b []byte) error { _, _, err := cbor.ReadUint64Bytes(b); return err }, "3b0000000000000000"},
		{"int32 from uint8", func(b []byte) error { _, _, err := cbor.ReadInt32Bytes(b); return err }, "1818"},
		{"int32 from small int", func(b []byte) error { _, _, err := cbor.ReadInt32Bytes(b); return err }, "01"},
		{"int8 from uint16", func(b []byte) error { _, _, err := cbor.ReadInt8Bytes(b); return err }, "190001"},
		{"int64 from negint32", func(b []byte) error { _, _, err := cbor.ReadInt64Bytes(b); return err }, "3a00000000"},
		{"bool from null", func(b []byte) error { _, _, err := cbor.ReadBoolBytes(b); return err }, "f6"},
		{"float64 from float32", func(b []byte) error { _, _, err := cbor.ReadFloat64Bytes(b); return err }, "fa3fc00000"},
		{"float32 from float16", func(b []byte) error { _, _, err := cbor.ReadFloat32Bytes(b); return err }, "f93c00"},
		{"string from 1-byte length", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }, "7803616263"},
		{"string from 2-byte length", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }, "790003616263"},
		{"string from indefinite", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }, "7f6161ff"},
		{"string from bytes", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }, "43616263"},
		{"bytes from indefinite", func(b []byte) error { _, _, err := cbor.ReadBytesBytes(b); return err }, "5f4101ff"},
		{"bytes from 4-byte length", func(b []byte) error { _, _, err := cbor.ReadBytesBytes(b); return err }, "5a0000000101"},
		{"array from 1-byte count", func(b []byte) error { _, _, err := cbor.ReadArrayHeaderBytes(b); return err }, "980100"},
		{"array from indefinite", func(b []byte) error { _, _, err := cbor.ReadArrayHeaderBytes(b); return err }, "9f01ff"},
		{"map from indefinite", func(b []byte) error { _, _, err := cbor.ReadMapHeaderBytes(b); return err }, "bf0101ff"},
		{"tag from date", func(b []byte) error { _, _, err := cbor.ReadTagBytes(b); return err }, "c11a00000000"},
		{"tag from bignum", func(b []byte) error { _, _, err := cbor.ReadTagBytes(b); return err }, "c24101"},
		{"int from invalid", func(b []byte) error { _, _, err := cbor.ReadIntBytes(b); return err }, "1c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(mustHex(t, tc.in))
			if !cbor.IsUnexpected(err) {
				t.Fatalf("got %v, want UnexpectedError", err)
			}
			if cbor.Resumable(err) {
				t.Fatal("UnexpectedError must not be resumable")
			}
		})
	}
}

func TestIllFormedPayloads(t *testing.T) {
	cases := []struct {
		name string
		read func([]byte) error
		in   string
	}{
		{"int8 positive overflow", func(b []byte) error { _, _, err := cbor.ReadInt8Bytes(b); return err }, "18c8"},
		{"int8 negative overflow", func(b []byte) error { _, _, err := cbor.ReadInt8Bytes(b); return err }, "38c8"},
		{"int16 overflow", func(b []byte) error { _, _, err := cbor.ReadInt16Bytes(b); return err }, "198000"},
		{"int32 negative overflow", func(b []byte) error { _, _, err := cbor.ReadInt32Bytes(b); return err }, "3a80000000"},
		{"int64 overflow", func(b []byte) error { _, _, err := cbor.ReadInt64Bytes(b); return err }, "1b8000000000000000"},
		{"int overflow", func(b []byte) error { _, _, err := cbor.ReadIntBytes(b); return err }, "3bffffffffffffffff"},
		{"invalid utf-8", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }, "62c328"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(mustHex(t, tc.in))
			if !cbor.IsIllFormed(err) {
				t.Fatalf("got %v, want IllFormedError", err)
			}
			if !cbor.Resumable(err) {
				t.Fatal("IllFormedError must be resumable")
			}
		})
	}
}

func TestInvalidUTF8BytesVersusText(t *testing.T) {
	payload := []byte{0xc3, 0x28}
	asText := append([]byte{0x62}, payload...)
	asBytes := append([]byte{0x42}, payload...)

	if _, err := cbor.Decode(cbor.String, asText); !cbor.IsIllFormed(err) {
		t.Fatalf("text: got %v, want ill-formed", err)
	}
	got, err := cbor.Decode(cbor.Bytes, asBytes)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("bytes: got %x want %x", got, payload)
	}
	if _, err := cbor.Encode(cbor.String, string(payload)); !cbor.IsIllFormed(err) {
		t.Fatalf("encode: got %v, want ill-formed", err)
	}
}

func TestDecodedBytesAreCopies(t *testing.T) {
	in := mustHex(t, "43010203")
	got, err := cbor.Decode(cbor.Bytes, in)
	if err != nil {
		t.Fatal(err)
	}
	in[1] = 0xff
	if got[0] != 0x01 {
		t.Fatal("decoded byte string aliases the input")
	}
}

// TestTruncationEveryPrefix checks that cutting a valid encoding anywhere
// reports ErrShortBytes.
func TestTruncationEveryPrefix(t *testing.T) {
	cases := []struct {
		in   string
		read func([]byte) error
	}{
		{"1818", func(b []byte) error { _, _, err := cbor.ReadUint8Bytes(b); return err }},
		{"1903e8", func(b []byte) error { _, _, err := cbor.ReadUint16Bytes(b); return err }},
		{"1a00000001", func(b []byte) error { _, _, err := cbor.ReadUint32Bytes(b); return err }},
		{"1bffffffffffffffff", func(b []byte) error { _, _, err := cbor.ReadUint64Bytes(b); return err }},
		{"3818", func(b []byte) error { _, _, err := cbor.ReadInt8Bytes(b); return err }},
		{"3901f3", func(b []byte) error { _, _, err := cbor.ReadInt16Bytes(b); return err }},
		{"3a00000000", func(b []byte) error { _, _, err := cbor.ReadInt32Bytes(b); return err }},
		{"3b7fffffffffffffff", func(b []byte) error { _, _, err := cbor.ReadInt64Bytes(b); return err }},
		{"fa3fc00000", func(b []byte) error { _, _, err := cbor.ReadFloat32Bytes(b); return err }},
		{"fb3ff199999999999a", func(b []byte) error { _, _, err := cbor.ReadFloat64Bytes(b); return err }},
		{"63616263", func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }},
		{"43010203", func(b []byte) error { _, _, err := cbor.ReadBytesBytes(b); return err }},
		{"7b000000000000001a" + hex.EncodeToString(bytes.Repeat([]byte{'a'}, 26)),
			func(b []byte) error { _, _, err := cbor.ReadStringBytes(b); return err }},
		{"831a000000011a000000021a00000003",
			func(b []byte) error { _, _, err := cbor.SliceOf(cbor.Int32).ReadCBOR(b); return err }},
		{"a2006161016162",
			func(b []byte) error { _, _, err := cbor.MapOf(cbor.Uint8, cbor.String).ReadCBOR(b); return err }},
		{"f5", func(b []byte) error { _, _, err := cbor.ReadBoolBytes(b); return err }},
	}
	for _, tc := range cases {
		full := mustHex(t, tc.in)
		if err := tc.read(full); err != nil {
			t.Fatalf("%s: full input failed: %v", tc.in, err)
		}
		for i := 0; i < len(full); i++ {
			if err := tc.read(full[:i]); !errors.Is(err, cbor.ErrShortBytes) {
				t.Fatalf("%s[:%d]: got %v, want ErrShortBytes", tc.in, i, err)
			}
		}
	}
}

func TestHugeDeclaredLength(t *testing.T) {
	// Array of 2^62 elements with no payload must not allocate.
	in := mustHex(t, "9b4000000000000000")
	if _, err := cbor.Decode(cbor.SliceOf(cbor.Uint8), in); !errors.Is(err, cbor.ErrShortBytes) {
		t.Fatalf("got %v, want ErrShortBytes", err)
	}
	in = mustHex(t, "7bffffffffffffffff")
	if _, err := cbor.Decode(cbor.String, in); !errors.Is(err, cbor.ErrShortBytes) {
		t.Fatalf("got %v, want ErrShortBytes", err)
	}
}

func TestDecodeExactTrailing(t *testing.T) {
	in := mustHex(t, "f5f4")
	if v, err := cbor.Decode(cbor.Bool, in); err != nil || !v {
		t.Fatalf("Decode: %v %v", v, err)
	}
	if _, err := cbor.DecodeExact(cbor.Bool, in); !errors.Is(err, cbor.ErrTrailingBytes) {
		t.Fatalf("DecodeExact: got %v, want ErrTrailingBytes", err)
	}
}

func TestAppendTagPanicsAboveMax(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	cbor.AppendTag(nil, cbor.MaxVariantTag+1)
}
