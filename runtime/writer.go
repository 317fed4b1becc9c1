package cbor

import "io"

// Writer appends a CBOR sequence to a ByteBuffer.
type Writer struct {
	bb *ByteBuffer
}

// NewWriter constructs a Writer that appends to the provided ByteBuffer.
// A nil buffer is replaced by a fresh one from the pool.
func NewWriter(bb *ByteBuffer) *Writer {
	if bb == nil {
		bb = GetByteBuffer()
	}
	return &Writer{bb: bb}
}

// WriteValue appends the encoding of v. On error nothing is written.
func WriteValue[T any](w *Writer, c Codec[T], v T) error {
	return w.bb.AppendValue(func(b []byte) ([]byte, error) { return c.AppendCBOR(b, v) })
}

// Bytes returns the underlying encoded bytes.
func (w *Writer) Bytes() []byte { return w.bb.Bytes() }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.bb.Len() }

// Reset discards everything written so far.
func (w *Writer) Reset() { w.bb.Reset() }

// WriteTo implements io.WriterTo. The buffer is left intact.
func (w *Writer) WriteTo(out io.Writer) (int64, error) { return w.bb.WriteTo(out) }

// WriteArrayHeader writes an array header with the given element count.
func (w *Writer) WriteArrayHeader(sz int) { w.bb.AppendArrayHeader(sz) }

// WriteMapHeader writes a map header with the given pair count.
func (w *Writer) WriteMapHeader(sz int) { w.bb.AppendMapHeader(sz) }

// WriteTag writes the lead byte of a union variant.
func (w *Writer) WriteTag(tag uint8) { w.bb.AppendTag(tag) }

// WriteString writes a text string value.
func (w *Writer) WriteString(s string) error { return WriteValue(w, String, s) }

// WriteBool writes a bool value.
func (w *Writer) WriteBool(v bool) { w.bb.AppendBool(v) }

// WriteInt32 writes an int32 value.
func (w *Writer) WriteInt32(v int32) { w.bb.AppendInt32(v) }

// WriteInt64 writes an int64 value.
func (w *Writer) WriteInt64(v int64) { w.bb.AppendInt64(v) }

// WriteUint64 writes a uint64 value.
func (w *Writer) WriteUint64(v uint64) { w.bb.AppendUint64(v) }

// WriteFloat32 writes a float32 value.
func (w *Writer) WriteFloat32(v float32) { w.bb.AppendFloat32(v) }

// WriteFloat64 writes a float64 value.
func (w *Writer) WriteFloat64(v float64) { w.bb.AppendFloat64(v) }

// WriteBytes writes a byte string value.
func (w *Writer) WriteBytes(v []byte) { w.bb.AppendBytes(v) }
