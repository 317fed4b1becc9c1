package cbor

// Encoded sizes. The fixed-width types always take exactly their size;
// Uint8Size and Int8Size are upper bounds since small values fit in the
// lead byte. For strings, byte slices and containers the total is the
// header size plus the payload.
const (
	BoolSize        = 1
	Uint8Size       = 2
	Uint16Size      = 3
	Uint32Size      = 5
	Uint64Size      = 9
	UintSize        = Uint64Size
	Int8Size        = 2
	Int16Size       = 3
	Int32Size       = 5
	Int64Size       = 9
	IntSize         = Int64Size
	Float32Size     = 5
	Float64Size     = 9
	TagSize         = 1
	MaxHeaderSize   = 9
	SmallHeaderSize = 1
)

// HeaderSize returns the size of a string length or container count
// header for sz.
func HeaderSize(sz int) int {
	if sz <= addInfoDirect {
		return SmallHeaderSize
	}
	return MaxHeaderSize
}

// StringSize returns the encoded size of s.
func StringSize(s string) int { return HeaderSize(len(s)) + len(s) }

// BytesSize returns the encoded size of b.
func BytesSize(b []byte) int { return HeaderSize(len(b)) + len(b) }
