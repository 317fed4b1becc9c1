package cbor

// Reader is a cursor over an in-memory CBOR sequence. Each read decodes
// one item and advances past it.
//
// When limits are configured, every item is walked once before it is
// decoded so that oversized or overly deep input is rejected before any
// allocation happens.
type Reader struct {
	buf []byte
	off int
	lim limits
}

// NewReaderBytes constructs a Reader over the provided buffer.
func NewReaderBytes(b []byte) *Reader { return &Reader{buf: b, lim: defaultLimits} }

// SetMaxContainerLen configures an upper bound on container lengths
// (arrays, maps, byte strings, text strings). A value of zero disables
// the limit. When exceeded, ErrContainerTooLarge is returned.
func (r *Reader) SetMaxContainerLen(max int) { r.lim.maxLen = max }

// SetMaxDepth configures the maximum nesting depth. Values below one
// restore the default.
func (r *Reader) SetMaxDepth(depth int) {
	if depth < 1 {
		depth = recursionLimit
	}
	r.lim.maxDepth = depth
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the unread portion of the underlying buffer.
func (r *Reader) Remaining() []byte { return r.buf[r.off:] }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// check runs the structural pre-pass over the next item.
func (r *Reader) check() error {
	if r.lim.maxLen == 0 && r.lim.maxDepth == recursionLimit {
		return nil
	}
	_, err := validateItem(r.buf[r.off:], 0, r.lim)
	return err
}

// ReadValue decodes the next item with c and advances the reader.
func ReadValue[T any](r *Reader, c Codec[T]) (T, error) {
	var zero T
	if err := r.check(); err != nil {
		return zero, err
	}
	v, n, err := c.ReadCBOR(r.buf[r.off:])
	if err != nil {
		return zero, err
	}
	r.off += n
	return v, nil
}

// Skip skips over the next item and advances the buffer.
func (r *Reader) Skip() error {
	n, err := validateItem(r.buf[r.off:], 0, r.lim)
	if err != nil {
		return err
	}
	r.off += n
	return nil
}

// ReadArrayHeader reads an array header and advances past it. The
// elements are left for subsequent reads.
func (r *Reader) ReadArrayHeader() (int, error) {
	sz, n, err := ReadArrayHeaderBytes(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	if err := checkLen(sz, r.lim); err != nil {
		return 0, err
	}
	r.off += n
	return sz, nil
}

// ReadMapHeader reads a map header and advances past it.
func (r *Reader) ReadMapHeader() (int, error) {
	sz, n, err := ReadMapHeaderBytes(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	if err := checkLen(sz, r.lim); err != nil {
		return 0, err
	}
	r.off += n
	return sz, nil
}

// ReadTag reads the lead byte of a union variant and advances past it.
func (r *Reader) ReadTag() (uint8, error) {
	tag, n, err := ReadTagBytes(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	r.off += n
	return tag, nil
}

// ReadString reads a text string and advances the buffer.
func (r *Reader) ReadString() (string, error) { return ReadValue(r, String) }

// ReadBytes reads a byte string and advances the buffer.
func (r *Reader) ReadBytes() ([]byte, error) { return ReadValue(r, Bytes) }

// ReadBool reads a bool and advances the buffer.
func (r *Reader) ReadBool() (bool, error) { return ReadValue(r, Bool) }

// ReadInt reads an int and advances the buffer.
func (r *Reader) ReadInt() (int, error) { return ReadValue(r, Int) }

// ReadInt32 reads an int32 and advances the buffer.
func (r *Reader) ReadInt32() (int32, error) { return ReadValue(r, Int32) }

// ReadInt64 reads an int64 and advances the buffer.
func (r *Reader) ReadInt64() (int64, error) { return ReadValue(r, Int64) }

// ReadUint64 reads a uint64 and advances the buffer.
func (r *Reader) ReadUint64() (uint64, error) { return ReadValue(r, Uint64) }

// ReadFloat32 reads a float32 and advances the buffer.
func (r *Reader) ReadFloat32() (float32, error) { return ReadValue(r, Float32) }

// ReadFloat64 reads a float64 and advances the buffer.
func (r *Reader) ReadFloat64() (float64, error) { return ReadValue(r, Float64) }
