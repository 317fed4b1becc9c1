package cbor

import (
	"io"
	"sync"
)

// ByteBuffer is a pooled, growable encode buffer.
//
// Do not retain Bytes() after PutByteBuffer; the backing array is reused.
type ByteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 1024)} }}

// GetByteBuffer obtains a pooled ByteBuffer with zero length.
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// GetMinSize obtains a pooled ByteBuffer with capacity for at least size bytes.
func GetMinSize(size int) *ByteBuffer {
	bb := GetByteBuffer()
	if size > 0 {
		bb.Ensure(size)
	}
	return bb
}

// PutByteBuffer returns the buffer to the pool after resetting its length.
func PutByteBuffer(bb *ByteBuffer) { bb.Reset(); bbPool.Put(bb) }

// Bytes returns the underlying bytes.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns length.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Cap returns capacity.
func (bb *ByteBuffer) Cap() int { return cap(bb.b) }

// Reset resets the length to zero; capacity is unchanged.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure ensures there is room for at least n more bytes without reallocation.
func (bb *ByteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	c := cap(bb.b)
	if c == 0 {
		c = 1024
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.b = append(bb.b, c)
	return nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.b)
	return int64(n), err
}

// AppendValue runs an append-style encoder against the buffer. On error the
// buffer is left as it was before the call.
func (bb *ByteBuffer) AppendValue(app func([]byte) ([]byte, error)) error {
	old := len(bb.b)
	out, err := app(bb.b)
	if err != nil {
		bb.b = bb.b[:old]
		return err
	}
	bb.b = out
	return nil
}

// Fluent appenders mirroring the package-level AppendXxx functions.

func (bb *ByteBuffer) AppendMapHeader(sz int) *ByteBuffer {
	bb.b = AppendMapHeader(bb.b, sz)
	return bb
}

func (bb *ByteBuffer) AppendArrayHeader(sz int) *ByteBuffer {
	bb.b = AppendArrayHeader(bb.b, sz)
	return bb
}

func (bb *ByteBuffer) AppendTag(tag uint8) *ByteBuffer {
	bb.b = AppendTag(bb.b, tag)
	return bb
}

func (bb *ByteBuffer) AppendString(s string) *ByteBuffer {
	bb.b = AppendString(bb.b, s)
	return bb
}

func (bb *ByteBuffer) AppendBytes(bs []byte) *ByteBuffer {
	bb.b = AppendBytes(bb.b, bs)
	return bb
}

func (bb *ByteBuffer) AppendBool(v bool) *ByteBuffer {
	bb.b = AppendBool(bb.b, v)
	return bb
}

func (bb *ByteBuffer) AppendInt8(i int8) *ByteBuffer {
	bb.b = AppendInt8(bb.b, i)
	return bb
}

func (bb *ByteBuffer) AppendInt32(i int32) *ByteBuffer {
	bb.b = AppendInt32(bb.b, i)
	return bb
}

func (bb *ByteBuffer) AppendInt64(i int64) *ByteBuffer {
	bb.b = AppendInt64(bb.b, i)
	return bb
}

func (bb *ByteBuffer) AppendUint8(u uint8) *ByteBuffer {
	bb.b = AppendUint8(bb.b, u)
	return bb
}

func (bb *ByteBuffer) AppendUint64(u uint64) *ByteBuffer {
	bb.b = AppendUint64(bb.b, u)
	return bb
}

func (bb *ByteBuffer) AppendFloat32(f float32) *ByteBuffer {
	bb.b = AppendFloat32(bb.b, f)
	return bb
}

func (bb *ByteBuffer) AppendFloat64(f float64) *ByteBuffer {
	bb.b = AppendFloat64(bb.b, f)
	return bb
}
