package cbor

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// keyCtx renders a map key as an error context path element.
func keyCtx(k any) string { return "{" + fmt.Sprint(k) + "}" }

// SliceOf returns a codec for []T that writes an array of elem-encoded
// values in slice order. Decoding always yields a non-nil slice.
func SliceOf[T any](elem Codec[T]) Codec[[]T] {
	return sliceCodec[T]{elem: elem}
}

type sliceCodec[T any] struct{ elem Codec[T] }

func (c sliceCodec[T]) AppendCBOR(b []byte, v []T) ([]byte, error) {
	b = AppendArrayHeader(b, len(v))
	var err error
	for i := range v {
		b, err = c.elem.AppendCBOR(b, v[i])
		if err != nil {
			return b, WrapError(err, i)
		}
	}
	return b, nil
}

func (c sliceCodec[T]) ReadCBOR(b []byte) ([]T, int, error) {
	sz, n, err := ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, sz)
	for i := 0; i < sz; i++ {
		v, m, err := c.elem.ReadCBOR(b[n:])
		if err != nil {
			return nil, 0, WrapError(err, i)
		}
		out = append(out, v)
		n += m
	}
	return out, n, nil
}

// SetOf returns a codec for map[T]struct{} that writes an array of the
// members. Duplicate members collapse on decode.
func SetOf[T comparable](elem Codec[T]) Codec[map[T]struct{}] {
	return setCodec[T]{elem: elem}
}

type setCodec[T comparable] struct{ elem Codec[T] }

func (c setCodec[T]) AppendCBOR(b []byte, v map[T]struct{}) ([]byte, error) {
	b = AppendArrayHeader(b, len(v))
	var err error
	for k := range v {
		b, err = c.elem.AppendCBOR(b, k)
		if err != nil {
			return b, WrapError(err, keyCtx(k))
		}
	}
	return b, nil
}

func (c setCodec[T]) ReadCBOR(b []byte) (map[T]struct{}, int, error) {
	sz, n, err := ReadArrayHeaderBytes(b)
	if err != nil {
		return nil, 0, err
	}
	out := make(map[T]struct{}, sz)
	for i := 0; i < sz; i++ {
		k, m, err := c.elem.ReadCBOR(b[n:])
		if err != nil {
			return nil, 0, WrapError(err, i)
		}
		out[k] = struct{}{}
		n += m
	}
	return out, n, nil
}

// MapOf returns a codec for map[K]V. Pairs are written in map iteration
// order; a repeated key on decode overwrites the earlier value.
func MapOf[K comparable, V any](key Codec[K], val Codec[V]) Codec[map[K]V] {
	return mapCodec[K, V]{key: key, val: val}
}

type mapCodec[K comparable, V any] struct {
	key Codec[K]
	val Codec[V]
}

func (c mapCodec[K, V]) AppendCBOR(b []byte, v map[K]V) ([]byte, error) {
	b = AppendMapHeader(b, len(v))
	return appendPairs(b, c.key, c.val, maps.All(v))
}

func (c mapCodec[K, V]) ReadCBOR(b []byte) (map[K]V, int, error) {
	sz, n, err := ReadMapHeaderBytes(b)
	if err != nil {
		return nil, 0, err
	}
	out := make(map[K]V, sz)
	m, err := readPairs(b[n:], sz, c.key, c.val, func(k K, v V) { out[k] = v })
	if err != nil {
		return nil, 0, err
	}
	return out, n + m, nil
}

// SortedMapOf returns a codec for map[K]V that writes pairs in ascending
// key order, so equal maps always have equal encodings.
func SortedMapOf[K cmp.Ordered, V any](key Codec[K], val Codec[V]) Codec[map[K]V] {
	return sortedMapCodec[K, V]{mapCodec[K, V]{key: key, val: val}}
}

type sortedMapCodec[K cmp.Ordered, V any] struct{ mapCodec[K, V] }

type kv[K, V any] struct {
	k K
	v V
}

func (c sortedMapCodec[K, V]) AppendCBOR(b []byte, v map[K]V) ([]byte, error) {
	b = AppendMapHeader(b, len(v))
	pairs := make([]kv[K, V], 0, len(v))
	for k, val := range maps.All(v) {
		pairs = append(pairs, kv[K, V]{k, val})
	}
	// Values travel with their keys: a NaN key cannot be looked up again.
	slices.SortFunc(pairs, func(a, b kv[K, V]) int { return cmp.Compare(a.k, b.k) })
	return appendPairs(b, c.key, c.val, func(yield func(K, V) bool) {
		for _, p := range pairs {
			if !yield(p.k, p.v) {
				return
			}
		}
	})
}

func appendPairs[K, V any](b []byte, key Codec[K], val Codec[V], pairs iter.Seq2[K, V]) ([]byte, error) {
	var err error
	for k, v := range pairs {
		b, err = key.AppendCBOR(b, k)
		if err != nil {
			return b, WrapError(err, keyCtx(k))
		}
		b, err = val.AppendCBOR(b, v)
		if err != nil {
			return b, WrapError(err, keyCtx(k))
		}
	}
	return b, nil
}

func readPairs[K, V any](b []byte, sz int, key Codec[K], val Codec[V], put func(K, V)) (int, error) {
	n := 0
	for i := 0; i < sz; i++ {
		k, m, err := key.ReadCBOR(b[n:])
		if err != nil {
			return 0, WrapError(err, i)
		}
		n += m
		v, m, err := val.ReadCBOR(b[n:])
		if err != nil {
			return 0, WrapError(err, keyCtx(k))
		}
		n += m
		put(k, v)
	}
	return n, nil
}

// OrderedMap is a map that remembers the order in which keys were first
// inserted. The zero value is an empty map ready to use.
type OrderedMap[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

// NewOrderedMap returns an empty OrderedMap with room for size entries.
func NewOrderedMap[K comparable, V any](size int) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{keys: make([]K, 0, size), m: make(map[K]V, size)}
}

// Set stores v under k. A key that is already present keeps its position.
func (om *OrderedMap[K, V]) Set(k K, v V) {
	if om.m == nil {
		om.m = make(map[K]V)
	}
	if _, ok := om.m[k]; !ok {
		om.keys = append(om.keys, k)
	}
	om.m[k] = v
}

// Get returns the value stored under k.
func (om *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := om.m[k]
	return v, ok
}

// Delete removes k.
func (om *OrderedMap[K, V]) Delete(k K) {
	if _, ok := om.m[k]; !ok {
		return
	}
	delete(om.m, k)
	om.keys = slices.DeleteFunc(om.keys, func(x K) bool { return x == k })
}

// Len returns the number of entries.
func (om *OrderedMap[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.keys)
}

// Keys returns the keys in insertion order.
func (om *OrderedMap[K, V]) Keys() []K {
	if om == nil {
		return nil
	}
	return slices.Clone(om.keys)
}

// All iterates over the entries in insertion order.
func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if om == nil {
			return
		}
		for _, k := range om.keys {
			if !yield(k, om.m[k]) {
				return
			}
		}
	}
}

// OrderedMapOf returns a codec for *OrderedMap[K, V] that writes pairs in
// insertion order. A nil map encodes as an empty map.
func OrderedMapOf[K comparable, V any](key Codec[K], val Codec[V]) Codec[*OrderedMap[K, V]] {
	return orderedMapCodec[K, V]{key: key, val: val}
}

type orderedMapCodec[K comparable, V any] struct {
	key Codec[K]
	val Codec[V]
}

func (c orderedMapCodec[K, V]) AppendCBOR(b []byte, v *OrderedMap[K, V]) ([]byte, error) {
	b = AppendMapHeader(b, v.Len())
	return appendPairs(b, c.key, c.val, v.All())
}

func (c orderedMapCodec[K, V]) ReadCBOR(b []byte) (*OrderedMap[K, V], int, error) {
	sz, n, err := ReadMapHeaderBytes(b)
	if err != nil {
		return nil, 0, err
	}
	out := NewOrderedMap[K, V](sz)
	m, err := readPairs(b[n:], sz, c.key, c.val, out.Set)
	if err != nil {
		return nil, 0, err
	}
	return out, n + m, nil
}
