// Package cbor is a strict, type-directed CBOR codec.
//
// Every supported Go type has exactly one wire form per value, and its
// decoder accepts only the forms its own encoder produces. The package
// defines three "families" of functions:
//   - AppendXxx() appends a value to a []byte in CBOR encoding.
//   - ReadXxxBytes() reads a value from a []byte and returns it together
//     with the number of bytes consumed.
//   - Codec[T] values (Int32, String, SliceOf(...), MapOf(...), NewUnion(...))
//     that wrap the first two so containers can encode and decode their
//     elements without knowing the concrete element type.
//
// Once a codec exists for a type, values can be encoded and decoded with
//
//	b, err := cbor.Encode(codec, v)
//
// and
//
//	v, err := cbor.Decode(codec, b)
package cbor

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse   = 20
	simpleTrue    = 21
	simpleFloat32 = 26
	simpleFloat64 = 27
)

// Union tags occupy lead bytes 0xc6..0xd4. Tag numbers 0..5 are taken by
// the date, bignum and fraction tags, so variant tag numbers are relative
// to tagBase.
const (
	tagBase        = 0xc6
	MaxVariantTag  = 14
	byteValueCount = 256
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Marshaler is the interface implemented by types that know how to marshal
// themselves as CBOR. MarshalCBOR appends the marshalled form to the provided
// byte slice, returning the extended slice and any errors encountered.
type Marshaler interface {
	MarshalCBOR([]byte) ([]byte, error)
}

// Unmarshaler is the interface fulfilled by objects that know how to unmarshal
// themselves from CBOR. UnmarshalCBOR decodes one item from the start of the
// slice and returns the number of bytes it consumed.
type Unmarshaler interface {
	UnmarshalCBOR([]byte) (int, error)
}
