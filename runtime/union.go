package cbor

import (
	"fmt"
	"strconv"
	"strings"
)

// VariantDef is one registered alternative of a union. Build it with
// Variant.
type VariantDef[T any] struct {
	tag  uint8
	name string
	app  func(b []byte, v T) (ok bool, out []byte, err error)
	read func(b []byte) (T, int, error)
}

// Tag returns the relative tag number of the variant.
func (d VariantDef[T]) Tag() uint8 { return d.tag }

// Name returns the variant name used in error messages.
func (d VariantDef[T]) Name() string { return d.name }

// Variant registers the alternative of T whose payload is a P. wrap lifts
// a decoded payload into T; unwrap reports whether a T holds this
// alternative and returns its payload.
func Variant[T, P any](tag uint8, name string, payload Codec[P], wrap func(P) T, unwrap func(T) (P, bool)) VariantDef[T] {
	if payload == nil || wrap == nil || unwrap == nil {
		panic("cbor: variant " + name + " has nil codec or hook")
	}
	return VariantDef[T]{
		tag:  tag,
		name: name,
		app: func(b []byte, v T) (bool, []byte, error) {
			p, ok := unwrap(v)
			if !ok {
				return false, b, nil
			}
			b = AppendTag(b, tag)
			b, err := payload.AppendCBOR(b, p)
			return true, b, err
		},
		read: func(b []byte) (T, int, error) {
			p, n, err := payload.ReadCBOR(b)
			if err != nil {
				var zero T
				return zero, 0, err
			}
			return wrap(p), n, nil
		},
	}
}

// Union is a codec for a closed sum type. Each value is written as the
// lead byte of its variant tag followed by the variant payload.
type Union[T any] struct {
	name     string
	variants []VariantDef[T]
	byTag    [MaxVariantTag + 1]*VariantDef[T]
}

// NewUnion builds a union codec from its variants. Variants are tried in
// order when encoding. It panics on a duplicate tag or a tag above
// MaxVariantTag.
func NewUnion[T any](name string, variants ...VariantDef[T]) *Union[T] {
	u := &Union[T]{name: name, variants: variants}
	for i := range u.variants {
		d := &u.variants[i]
		if d.app == nil || d.read == nil {
			panic("cbor: union " + name + ": variant not built with Variant")
		}
		if d.tag > MaxVariantTag {
			panic(fmt.Sprintf("cbor: union %s: tag %d of %s exceeds %d", name, d.tag, d.name, MaxVariantTag))
		}
		if prev := u.byTag[d.tag]; prev != nil {
			panic(fmt.Sprintf("cbor: union %s: tag %d registered by both %s and %s", name, d.tag, prev.name, d.name))
		}
		u.byTag[d.tag] = d
	}
	return u
}

// Tags returns the registered tag numbers in registration order.
func (u *Union[T]) Tags() []uint8 {
	out := make([]uint8, len(u.variants))
	for i, d := range u.variants {
		out[i] = d.tag
	}
	return out
}

func (u *Union[T]) tagList() string {
	parts := make([]string, len(u.variants))
	for i, d := range u.variants {
		parts[i] = strconv.Itoa(int(d.tag))
	}
	return strings.Join(parts, ", ")
}

// AppendCBOR implements Codec.
func (u *Union[T]) AppendCBOR(b []byte, v T) ([]byte, error) {
	for i := range u.variants {
		d := &u.variants[i]
		ok, out, err := d.app(b, v)
		if !ok {
			continue
		}
		if err != nil {
			return b, WrapError(err, u.name+"."+d.name)
		}
		return out, nil
	}
	return b, UnexpectedError{Type: u.name, Reason: fmt.Sprintf("value %T matching no variant", v)}
}

// ReadCBOR implements Codec.
func (u *Union[T]) ReadCBOR(b []byte) (T, int, error) {
	var zero T
	if len(b) < 1 {
		return zero, 0, ErrShortBytes
	}
	c := Classify(b[0])
	if c.Kind != KindTag {
		return zero, 0, UnexpectedError{Type: u.name, Lead: b[0], Class: c}
	}
	d := u.byTag[c.Tag()]
	if d == nil {
		return zero, 0, UnexpectedError{
			Type:   u.name,
			Lead:   b[0],
			Class:  c,
			Reason: fmt.Sprintf("tag %d (registered: %s)", c.Tag(), u.tagList()),
		}
	}
	v, n, err := d.read(b[1:])
	if err != nil {
		return zero, 0, WrapError(err, u.name+"."+d.name)
	}
	return v, n + 1, nil
}
