package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

// ClassifyCmd prints the classification of every byte it is given.
type ClassifyCmd struct {
	Hex []string `arg:"" help:"Hex-encoded bytes; each byte is classified on its own."`
}

func (c *ClassifyCmd) Run(e *env) error {
	for _, h := range c.Hex {
		b, err := decodeHex(h)
		if err != nil {
			return err
		}
		for _, x := range b {
			fmt.Fprintf(e.out, "0x%02x %s\n", x, cbor.Classify(x))
		}
	}
	return nil
}

// SequenceInput is the shared source of a CBOR sequence: a hex argument,
// hex on stdin, or raw bytes on stdin.
type SequenceInput struct {
	Hex string `arg:"" optional:"" help:"Hex-encoded input; read from stdin when omitted."`
	Raw bool   `help:"Read raw bytes from stdin instead of hex."`
}

func (in SequenceInput) load(e *env) ([]byte, error) {
	if in.Hex != "" {
		if in.Raw {
			return nil, errors.New("--raw reads stdin and takes no argument")
		}
		return decodeHex(in.Hex)
	}
	b, err := io.ReadAll(e.in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if in.Raw {
		return b, nil
	}
	return decodeHex(string(b))
}

// decodeHex accepts hex with optional 0x prefix and embedded whitespace.
func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}

// eachItem calls render for every item of the sequence b, writing one line
// per item.
func eachItem(e *env, b []byte, render func([]byte) (string, int, error)) error {
	for off := 0; off < len(b); {
		s, n, err := render(b[off:])
		if err != nil {
			return fmt.Errorf("item at offset %d: %w", off, err)
		}
		e.log.Debug("item", "offset", off, "len", n)
		fmt.Fprintln(e.out, s)
		off += n
	}
	return nil
}

// DiagCmd renders a sequence in diagnostic notation.
type DiagCmd struct {
	SequenceInput
}

func (c *DiagCmd) Run(e *env) error {
	b, err := c.load(e)
	if err != nil {
		return err
	}
	return eachItem(e, b, cbor.DiagBytes)
}

// JSONCmd renders a sequence as JSON lines.
type JSONCmd struct {
	SequenceInput
}

func (c *JSONCmd) Run(e *env) error {
	b, err := c.load(e)
	if err != nil {
		return err
	}
	return eachItem(e, b, func(b []byte) (string, int, error) {
		js, n, err := cbor.ToJSONBytes(b)
		return string(js), n, err
	})
}

// ValidateCmd walks a sequence and reports the extent of every item.
type ValidateCmd struct {
	SequenceInput
}

func (c *ValidateCmd) Run(e *env) error {
	b, err := c.load(e)
	if err != nil {
		return err
	}
	items := 0
	for off := 0; off < len(b); items++ {
		n, err := cbor.ValidateBytes(b[off:])
		if err != nil {
			return fmt.Errorf("item %d at offset %d: %w", items, off, err)
		}
		fmt.Fprintf(e.out, "item %d: offset %d, %d bytes\n", items, off, n)
		off += n
	}
	fmt.Fprintf(e.out, "ok: %d items, %d bytes\n", items, len(b))
	return nil
}

// EncodeCmd encodes literal values of one type.
type EncodeCmd struct {
	Type   string   `short:"t" required:"" enum:"bool,uint8,uint16,uint32,uint64,int8,int16,int32,int64,float32,float64,string,bytes" help:"Value type (${enum})."`
	Seq    bool     `help:"Encode all values as one sequence instead of one item each."`
	Values []string `arg:"" help:"Values to encode; bytes are given in hex."`
}

func (c *EncodeCmd) Run(e *env) error {
	var lines []string
	var err error
	switch c.Type {
	case "bool":
		lines, err = encodeAll(cbor.Bool, strconv.ParseBool, c.Values, c.Seq)
	case "uint8":
		lines, err = encodeAll(cbor.Uint8, parseUint[uint8](8), c.Values, c.Seq)
	case "uint16":
		lines, err = encodeAll(cbor.Uint16, parseUint[uint16](16), c.Values, c.Seq)
	case "uint32":
		lines, err = encodeAll(cbor.Uint32, parseUint[uint32](32), c.Values, c.Seq)
	case "uint64":
		lines, err = encodeAll(cbor.Uint64, parseUint[uint64](64), c.Values, c.Seq)
	case "int8":
		lines, err = encodeAll(cbor.Int8, parseInt[int8](8), c.Values, c.Seq)
	case "int16":
		lines, err = encodeAll(cbor.Int16, parseInt[int16](16), c.Values, c.Seq)
	case "int32":
		lines, err = encodeAll(cbor.Int32, parseInt[int32](32), c.Values, c.Seq)
	case "int64":
		lines, err = encodeAll(cbor.Int64, parseInt[int64](64), c.Values, c.Seq)
	case "float32":
		lines, err = encodeAll(cbor.Float32, func(s string) (float32, error) {
			f, err := strconv.ParseFloat(s, 32)
			return float32(f), err
		}, c.Values, c.Seq)
	case "float64":
		lines, err = encodeAll(cbor.Float64, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		}, c.Values, c.Seq)
	case "string":
		lines, err = encodeAll(cbor.String, func(s string) (string, error) { return s, nil }, c.Values, c.Seq)
	case "bytes":
		lines, err = encodeAll(cbor.Bytes, decodeHex, c.Values, c.Seq)
	default:
		err = fmt.Errorf("unknown type %q", c.Type)
	}
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(e.out, l)
	}
	return nil
}

func parseUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return T(v), err
	}
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return T(v), err
	}
}

// encodeAll parses and encodes each value, returning one hex line per
// value, or a single line holding the whole sequence when seq is set.
func encodeAll[T any](c cbor.Codec[T], parse func(string) (T, error), values []string, seq bool) ([]string, error) {
	vs := make([]T, 0, len(values))
	for i, s := range values {
		v, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("value %d %q: %w", i, s, err)
		}
		vs = append(vs, v)
	}
	if seq {
		b, err := cbor.Encode(cbor.SliceOf(c), vs)
		if err != nil {
			return nil, err
		}
		return []string{hex.EncodeToString(b)}, nil
	}
	lines := make([]string, 0, len(vs))
	for i, v := range vs {
		b, err := cbor.Encode(c, v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		lines = append(lines, hex.EncodeToString(b))
	}
	return lines, nil
}
