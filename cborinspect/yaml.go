package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"
)

const maxYAMLDepth = 1024

// YAMLCmd encodes YAML documents as CBOR. Integers become int64, floats
// float64, !!binary byte strings, sequences arrays and mappings maps in
// document order.
type YAMLCmd struct {
	File string `arg:"" optional:"" help:"YAML file; read from stdin when omitted."`
	Diag bool   `help:"Print diagnostic notation instead of hex."`
}

func (c *YAMLCmd) Run(e *env) error {
	in := e.in
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	dec := yaml.NewDecoder(in)
	for doc := 0; ; doc++ {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("document %d: %w", doc, err)
		}
		b, err := appendYAML(nil, &n, 0)
		if err != nil {
			return fmt.Errorf("document %d: %w", doc, err)
		}
		e.log.Debug("document", "index", doc, "bytes", len(b))
		if c.Diag {
			s, _, err := cbor.DiagBytes(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, s)
			continue
		}
		fmt.Fprintln(e.out, hex.EncodeToString(b))
	}
}

func appendYAML(b []byte, n *yaml.Node, depth int) ([]byte, error) {
	if depth > maxYAMLDepth {
		return b, cbor.ErrMaxDepthExceeded
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return b, fmt.Errorf("line %d: empty document", n.Line)
		}
		return appendYAML(b, n.Content[0], depth+1)

	case yaml.AliasNode:
		return appendYAML(b, n.Alias, depth+1)

	case yaml.SequenceNode:
		b = cbor.AppendArrayHeader(b, len(n.Content))
		for i, item := range n.Content {
			var err error
			if b, err = appendYAML(b, item, depth+1); err != nil {
				return b, cbor.WrapError(err, i)
			}
		}
		return b, nil

	case yaml.MappingNode:
		b = cbor.AppendMapHeader(b, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			var err error
			if b, err = appendYAML(b, n.Content[i], depth+1); err != nil {
				return b, err
			}
			if b, err = appendYAML(b, n.Content[i+1], depth+1); err != nil {
				return b, cbor.WrapError(err, "{"+n.Content[i].Value+"}")
			}
		}
		return b, nil

	case yaml.ScalarNode:
		return appendScalar(b, n)
	}
	return b, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func appendScalar(b []byte, n *yaml.Node) ([]byte, error) {
	switch n.ShortTag() {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return b, err
		}
		return cbor.AppendInt64(b, v), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return b, err
		}
		return cbor.AppendFloat64(b, v), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return b, err
		}
		return cbor.AppendBool(b, v), nil
	case "!!str":
		return cbor.String.AppendCBOR(b, n.Value)
	case "!!binary":
		v, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return b, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return cbor.AppendBytes(b, v), nil
	}
	return b, fmt.Errorf("line %d: %s values have no CBOR form here", n.Line, n.ShortTag())
}
