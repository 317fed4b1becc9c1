package cbor

import "unicode/utf8"

// Codec encodes and decodes values of type T. Implementations exist for
// every supported scalar type and are composed generically for containers
// and unions.
//
// AppendCBOR appends the encoding of v to b and returns the extended slice.
// ReadCBOR decodes one item from the start of b and returns it together
// with the number of bytes consumed; bytes past the item are ignored.
type Codec[T any] interface {
	AppendCBOR(b []byte, v T) ([]byte, error)
	ReadCBOR(b []byte) (v T, n int, err error)
}

// funcCodec adapts a pair of infallible append / read functions.
type funcCodec[T any] struct {
	app  func([]byte, T) []byte
	read func([]byte) (T, int, error)
}

func (c funcCodec[T]) AppendCBOR(b []byte, v T) ([]byte, error) { return c.app(b, v), nil }
func (c funcCodec[T]) ReadCBOR(b []byte) (T, int, error)        { return c.read(b) }

// Scalar codecs.
var (
	Bool    Codec[bool]    = funcCodec[bool]{AppendBool, ReadBoolBytes}
	Uint8   Codec[uint8]   = funcCodec[uint8]{AppendUint8, ReadUint8Bytes}
	Uint16  Codec[uint16]  = funcCodec[uint16]{AppendUint16, ReadUint16Bytes}
	Uint32  Codec[uint32]  = funcCodec[uint32]{AppendUint32, ReadUint32Bytes}
	Uint64  Codec[uint64]  = funcCodec[uint64]{AppendUint64, ReadUint64Bytes}
	Uint    Codec[uint]    = funcCodec[uint]{AppendUint, ReadUintBytes}
	Int8    Codec[int8]    = funcCodec[int8]{AppendInt8, ReadInt8Bytes}
	Int16   Codec[int16]   = funcCodec[int16]{AppendInt16, ReadInt16Bytes}
	Int32   Codec[int32]   = funcCodec[int32]{AppendInt32, ReadInt32Bytes}
	Int64   Codec[int64]   = funcCodec[int64]{AppendInt64, ReadInt64Bytes}
	Int     Codec[int]     = funcCodec[int]{AppendInt, ReadIntBytes}
	Float32 Codec[float32] = funcCodec[float32]{AppendFloat32, ReadFloat32Bytes}
	Float64 Codec[float64] = funcCodec[float64]{AppendFloat64, ReadFloat64Bytes}
	Bytes   Codec[[]byte]  = funcCodec[[]byte]{AppendBytes, ReadBytesBytes}

	// String refuses to encode invalid UTF-8 so that every value it
	// writes can be read back.
	String Codec[string] = stringCodec{}
)

type stringCodec struct{}

func (stringCodec) AppendCBOR(b []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return b, illFormed("string", "invalid UTF-8 in text string")
	}
	return AppendString(b, s), nil
}

func (stringCodec) ReadCBOR(b []byte) (string, int, error) { return ReadStringBytes(b) }

// Self returns a codec for a type that implements Marshaler and
// Unmarshaler on its pointer.
//
//	var PointCodec = cbor.Self[Point]()
func Self[T any, PT interface {
	*T
	Marshaler
	Unmarshaler
}]() Codec[T] {
	return selfCodec[T, PT]{}
}

type selfCodec[T any, PT interface {
	*T
	Marshaler
	Unmarshaler
}] struct{}

func (selfCodec[T, PT]) AppendCBOR(b []byte, v T) ([]byte, error) {
	return PT(&v).MarshalCBOR(b)
}

func (selfCodec[T, PT]) ReadCBOR(b []byte) (T, int, error) {
	var v T
	n, err := PT(&v).UnmarshalCBOR(b)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return v, n, nil
}

// Encode returns the encoding of v in a newly allocated slice owned by
// the caller.
func Encode[T any](c Codec[T], v T) ([]byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := bb.AppendValue(func(b []byte) ([]byte, error) { return c.AppendCBOR(b, v) }); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

// Decode decodes one item from the start of b. Bytes following the item
// are ignored; use DecodeExact to reject them.
func Decode[T any](c Codec[T], b []byte) (T, error) {
	v, _, err := c.ReadCBOR(b)
	return v, err
}

// DecodeExact is like Decode but returns ErrTrailingBytes when b holds
// more than one item.
func DecodeExact[T any](c Codec[T], b []byte) (T, error) {
	v, n, err := c.ReadCBOR(b)
	if err != nil {
		return v, err
	}
	if n != len(b) {
		var zero T
		return zero, ErrTrailingBytes
	}
	return v, nil
}
