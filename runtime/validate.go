package cbor

// recursionLimit is the default nesting depth accepted by validation,
// diagnostic rendering and Reader.
const recursionLimit = 1024

// limits bounds a structural walk. Zero maxLen disables the length check.
type limits struct {
	maxDepth int
	maxLen   int
}

var defaultLimits = limits{maxDepth: recursionLimit}

// ValidateBytes checks that b starts with one item built only from the wire
// forms this package emits, and returns the item's length in bytes. Text
// strings are checked for valid UTF-8. No values are built.
func ValidateBytes(b []byte) (n int, err error) {
	return validateItem(b, 0, defaultLimits)
}

// ValidateDocument validates that b is a sequence of zero or more items
// accepted by ValidateBytes and returns how many there are.
func ValidateDocument(b []byte) (items int, err error) {
	off := 0
	for off < len(b) {
		n, err := validateItem(b[off:], 0, defaultLimits)
		if err != nil {
			return items, WrapError(err, "item", items)
		}
		off += n
		items++
	}
	return items, nil
}

func validateItem(b []byte, depth int, lim limits) (int, error) {
	if depth > lim.maxDepth {
		return 0, ErrMaxDepthExceeded
	}
	if len(b) < 1 {
		return 0, ErrShortBytes
	}
	c := Classify(b[0])
	switch c.Kind {
	case KindSmallInt, KindSmallNegInt, KindBool:
		return 1, nil
	case KindUint1, KindNegUint1:
		return fixedLen(b, 1)
	case KindUint2, KindNegUint2:
		return fixedLen(b, 2)
	case KindUint4, KindNegUint4, KindFloat4:
		return fixedLen(b, 4)
	case KindUint8, KindNegUint8, KindFloat8:
		return fixedLen(b, 8)

	case KindSmallByteString, KindByteString8:
		v, n, err := ReadBytesZC(b)
		if err != nil {
			return 0, err
		}
		if err := checkLen(len(v), lim); err != nil {
			return 0, err
		}
		return n, nil

	case KindSmallTextString, KindTextString8:
		v, n, err := readStringZC(b, "string", KindSmallTextString, KindTextString8)
		if err != nil {
			return 0, err
		}
		if err := checkLen(len(v), lim); err != nil {
			return 0, err
		}
		if !isUTF8Valid(v) {
			return 0, illFormed("string", "invalid UTF-8 in text string")
		}
		return n, nil

	case KindSmallArray, KindArray8:
		sz, n, err := ReadArrayHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		if err := checkLen(sz, lim); err != nil {
			return 0, err
		}
		for i := 0; i < sz; i++ {
			m, err := validateItem(b[n:], depth+1, lim)
			if err != nil {
				return 0, WrapError(err, i)
			}
			n += m
		}
		return n, nil

	case KindSmallMap, KindMap8:
		sz, n, err := ReadMapHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		if err := checkLen(sz, lim); err != nil {
			return 0, err
		}
		for i := 0; i < 2*sz; i++ {
			m, err := validateItem(b[n:], depth+1, lim)
			if err != nil {
				return 0, WrapError(err, i/2)
			}
			n += m
		}
		return n, nil

	case KindTag:
		m, err := validateItem(b[1:], depth+1, lim)
		if err != nil {
			return 0, err
		}
		return 1 + m, nil
	}
	return 0, unexpected("item", b[0])
}

func fixedLen(b []byte, width int) (int, error) {
	if len(b) < 1+width {
		return 0, ErrShortBytes
	}
	return 1 + width, nil
}

func checkLen(sz int, lim limits) error {
	if lim.maxLen > 0 && sz > lim.maxLen {
		return ErrContainerTooLarge
	}
	return nil
}
