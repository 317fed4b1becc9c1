package cbor

import "strconv"

// Kind names the structural category a lead byte begins.
type Kind uint8

// Lead byte kinds. The numeric suffix of the fixed-width kinds is the width
// in bytes of the argument that follows the lead byte.
const (
	KindInvalid Kind = iota

	KindSmallInt
	KindUint1
	KindUint2
	KindUint4
	KindUint8

	KindSmallNegInt
	KindNegUint1
	KindNegUint2
	KindNegUint4
	KindNegUint8

	KindSmallByteString
	KindByteString1
	KindByteString2
	KindByteString4
	KindByteString8
	KindTerminatedByteString

	KindSmallTextString
	KindTextString1
	KindTextString2
	KindTextString4
	KindTextString8
	KindTerminatedTextString

	KindSmallArray
	KindArray1
	KindArray2
	KindArray4
	KindArray8
	KindTerminatedArray

	KindSmallMap
	KindMap1
	KindMap2
	KindMap4
	KindMap8
	KindTerminatedMap

	KindTag
	KindNotSupported
	KindUnsignedBigNum
	KindNegativeBigNum

	KindBool
	KindNull
	KindUndefined
	KindFloat2
	KindFloat4
	KindFloat8
	KindStop

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:              "invalid",
	KindSmallInt:             "small-int",
	KindUint1:                "uint8-follows",
	KindUint2:                "uint16-follows",
	KindUint4:                "uint32-follows",
	KindUint8:                "uint64-follows",
	KindSmallNegInt:          "small-negint",
	KindNegUint1:             "negint-uint8-follows",
	KindNegUint2:             "negint-uint16-follows",
	KindNegUint4:             "negint-uint32-follows",
	KindNegUint8:             "negint-uint64-follows",
	KindSmallByteString:      "small-bytes",
	KindByteString1:          "bytes-len8",
	KindByteString2:          "bytes-len16",
	KindByteString4:          "bytes-len32",
	KindByteString8:          "bytes-len64",
	KindTerminatedByteString: "bytes-indefinite",
	KindSmallTextString:      "small-text",
	KindTextString1:          "text-len8",
	KindTextString2:          "text-len16",
	KindTextString4:          "text-len32",
	KindTextString8:          "text-len64",
	KindTerminatedTextString: "text-indefinite",
	KindSmallArray:           "small-array",
	KindArray1:               "array-len8",
	KindArray2:               "array-len16",
	KindArray4:               "array-len32",
	KindArray8:               "array-len64",
	KindTerminatedArray:      "array-indefinite",
	KindSmallMap:             "small-map",
	KindMap1:                 "map-len8",
	KindMap2:                 "map-len16",
	KindMap4:                 "map-len32",
	KindMap8:                 "map-len64",
	KindTerminatedMap:        "map-indefinite",
	KindTag:                  "tag",
	KindNotSupported:         "not-supported",
	KindUnsignedBigNum:       "unsigned-bignum",
	KindNegativeBigNum:       "negative-bignum",
	KindBool:                 "bool",
	KindNull:                 "null",
	KindUndefined:            "undefined",
	KindFloat2:               "float16",
	KindFloat4:               "float32",
	KindFloat8:               "float64",
	KindStop:                 "break",
}

// String implements fmt.Stringer
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Class is the classification of a single lead byte. Arg holds the value
// packed into the lead byte for the small kinds, the relative tag number
// for KindTag and 0/1 for KindBool; it is zero otherwise.
type Class struct {
	Kind Kind
	Arg  uint8
}

// Len returns the inline length or element count of a small string,
// array or map classification.
func (c Class) Len() int { return int(c.Arg) }

// Int returns the value of a SmallInt or SmallNegInt classification.
func (c Class) Int() int64 {
	if c.Kind == KindSmallNegInt {
		return -1 - int64(c.Arg)
	}
	return int64(c.Arg)
}

// Tag returns the relative tag number of a KindTag classification.
func (c Class) Tag() uint8 { return c.Arg }

// Bool returns the value of a KindBool classification.
func (c Class) Bool() bool { return c.Arg != 0 }

// HasArg reports whether the classification carries a value in Arg.
func (c Class) HasArg() bool {
	switch c.Kind {
	case KindSmallInt, KindSmallNegInt, KindSmallByteString, KindSmallTextString,
		KindSmallArray, KindSmallMap, KindTag, KindBool:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (c Class) String() string {
	switch c.Kind {
	case KindSmallInt, KindSmallNegInt:
		return c.Kind.String() + "(" + strconv.FormatInt(c.Int(), 10) + ")"
	case KindBool:
		return strconv.FormatBool(c.Bool())
	case KindSmallByteString, KindSmallTextString, KindSmallArray, KindSmallMap, KindTag:
		return c.Kind.String() + "(" + strconv.Itoa(int(c.Arg)) + ")"
	}
	return c.Kind.String()
}

// Classify returns the classification of the lead byte b. It is total over
// all byte values; bytes that begin no item yield KindInvalid.
func Classify(b byte) Class {
	switch {
	case b <= 0x17:
		return Class{Kind: KindSmallInt, Arg: b}
	case b == 0x18:
		return Class{Kind: KindUint1}
	case b == 0x19:
		return Class{Kind: KindUint2}
	case b == 0x1a:
		return Class{Kind: KindUint4}
	case b == 0x1b:
		return Class{Kind: KindUint8}
	case b >= 0x20 && b <= 0x37:
		return Class{Kind: KindSmallNegInt, Arg: b - 0x20}
	case b == 0x38:
		return Class{Kind: KindNegUint1}
	case b == 0x39:
		return Class{Kind: KindNegUint2}
	case b == 0x3a:
		return Class{Kind: KindNegUint4}
	case b == 0x3b:
		return Class{Kind: KindNegUint8}
	case b >= 0x40 && b <= 0x57:
		return Class{Kind: KindSmallByteString, Arg: b - 0x40}
	case b == 0x58:
		return Class{Kind: KindByteString1}
	case b == 0x59:
		return Class{Kind: KindByteString2}
	case b == 0x5a:
		return Class{Kind: KindByteString4}
	case b == 0x5b:
		return Class{Kind: KindByteString8}
	case b == 0x5f:
		return Class{Kind: KindTerminatedByteString}
	case b >= 0x60 && b <= 0x77:
		return Class{Kind: KindSmallTextString, Arg: b - 0x60}
	case b == 0x78:
		return Class{Kind: KindTextString1}
	case b == 0x79:
		return Class{Kind: KindTextString2}
	case b == 0x7a:
		return Class{Kind: KindTextString4}
	case b == 0x7b:
		return Class{Kind: KindTextString8}
	case b == 0x7f:
		return Class{Kind: KindTerminatedTextString}
	case b >= 0x80 && b <= 0x97:
		return Class{Kind: KindSmallArray, Arg: b - 0x80}
	case b == 0x98:
		return Class{Kind: KindArray1}
	case b == 0x99:
		return Class{Kind: KindArray2}
	case b == 0x9a:
		return Class{Kind: KindArray4}
	case b == 0x9b:
		return Class{Kind: KindArray8}
	case b == 0x9f:
		return Class{Kind: KindTerminatedArray}
	case b >= 0xa0 && b <= 0xb7:
		return Class{Kind: KindSmallMap, Arg: b - 0xa0}
	case b == 0xb8:
		return Class{Kind: KindMap1}
	case b == 0xb9:
		return Class{Kind: KindMap2}
	case b == 0xba:
		return Class{Kind: KindMap4}
	case b == 0xbb:
		return Class{Kind: KindMap8}
	case b == 0xbf:
		return Class{Kind: KindTerminatedMap}
	case b == 0xc0, b == 0xc1: // date/time
		return Class{Kind: KindNotSupported}
	case b == 0xc2:
		return Class{Kind: KindUnsignedBigNum}
	case b == 0xc3:
		return Class{Kind: KindNegativeBigNum}
	case b == 0xc4, b == 0xc5: // decimal fraction, bigfloat
		return Class{Kind: KindNotSupported}
	case b >= tagBase && b <= tagBase+MaxVariantTag:
		return Class{Kind: KindTag, Arg: b - tagBase}
	case b >= 0xd5 && b <= 0xd7: // expected conversion
		return Class{Kind: KindNotSupported}
	case b >= 0xd8 && b <= 0xda: // 1/2/4-byte tag numbers
		return Class{Kind: KindNotSupported}
	case b >= 0xe0 && b <= 0xf3: // simple values
		return Class{Kind: KindNotSupported}
	case b == 0xf4:
		return Class{Kind: KindBool, Arg: 0}
	case b == 0xf5:
		return Class{Kind: KindBool, Arg: 1}
	case b == 0xf6:
		return Class{Kind: KindNull}
	case b == 0xf7:
		return Class{Kind: KindUndefined}
	case b == 0xf8: // one-byte simple value
		return Class{Kind: KindNotSupported}
	case b == 0xf9:
		return Class{Kind: KindFloat2}
	case b == 0xfa:
		return Class{Kind: KindFloat4}
	case b == 0xfb:
		return Class{Kind: KindFloat8}
	case b == 0xff:
		return Class{Kind: KindStop}
	}
	return Class{Kind: KindInvalid}
}
