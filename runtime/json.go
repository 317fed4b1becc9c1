package cbor

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
)

// ToJSONBytes converts the next item into JSON and returns the JSON bytes
// and the number of CBOR bytes consumed. Byte strings become standard
// base64 strings, map keys that are not text are rendered as their JSON
// text in quotes, union variants become {"tag":N,"value":...} and
// non-finite floats become null.
func ToJSONBytes(b []byte) ([]byte, int, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	n, err := toJSON(bb, b, 0)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, n, nil
}

func toJSON(buf *ByteBuffer, b []byte, depth int) (int, error) {
	if depth > recursionLimit {
		return 0, ErrMaxDepthExceeded
	}
	if len(b) < 1 {
		return 0, ErrShortBytes
	}
	switch c := Classify(b[0]); c.Kind {
	case KindFloat4, KindFloat8:
		var f float64
		var n int
		var err error
		if c.Kind == KindFloat4 {
			var f32 float32
			f32, n, err = ReadFloat32Bytes(b)
			f = float64(f32)
		} else {
			f, n, err = ReadFloat64Bytes(b)
		}
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
		} else {
			buf.b = strconv.AppendFloat(buf.b, f, 'g', -1, 64)
		}
		return n, nil

	case KindSmallByteString, KindByteString8:
		v, n, err := ReadBytesZC(b)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('"')
		buf.b = base64.StdEncoding.AppendEncode(buf.b, v)
		buf.WriteByte('"')
		return n, nil

	case KindSmallTextString, KindTextString8:
		s, n, err := ReadStringBytes(b)
		if err != nil {
			return 0, err
		}
		js, _ := json.Marshal(s)
		buf.Write(js)
		return n, nil

	case KindSmallArray, KindArray8:
		sz, n, err := ReadArrayHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('[')
		for i := 0; i < sz; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			m, err := toJSON(buf, b[n:], depth+1)
			if err != nil {
				return 0, err
			}
			n += m
		}
		buf.WriteByte(']')
		return n, nil

	case KindSmallMap, KindMap8:
		sz, n, err := ReadMapHeaderBytes(b)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('{')
		for i := 0; i < sz; i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			m, err := jsonKey(buf, b[n:], depth+1)
			if err != nil {
				return 0, err
			}
			n += m
			buf.WriteByte(':')
			m, err = toJSON(buf, b[n:], depth+1)
			if err != nil {
				return 0, err
			}
			n += m
		}
		buf.WriteByte('}')
		return n, nil

	case KindTag:
		buf.WriteString(`{"tag":`)
		buf.b = strconv.AppendUint(buf.b, uint64(c.Tag()), 10)
		buf.WriteString(`,"value":`)
		m, err := toJSON(buf, b[1:], depth+1)
		if err != nil {
			return 0, err
		}
		buf.WriteByte('}')
		return 1 + m, nil
	}
	// Integers and bools share their diagnostic rendering.
	return diagItem(buf, b, depth)
}

// jsonKey writes a map key as a JSON string.
func jsonKey(buf *ByteBuffer, b []byte, depth int) (int, error) {
	if len(b) > 0 {
		if k := Classify(b[0]).Kind; k == KindSmallTextString || k == KindTextString8 {
			return toJSON(buf, b, depth)
		}
	}
	tmp := GetByteBuffer()
	defer PutByteBuffer(tmp)
	n, err := toJSON(tmp, b, depth)
	if err != nil {
		return 0, err
	}
	js, _ := json.Marshal(string(tmp.Bytes()))
	buf.Write(js)
	return n, nil
}
