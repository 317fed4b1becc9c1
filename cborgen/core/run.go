package core

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	cbor "github.com/synadia-labs/ezcbor.go/runtime"

	tmplfs "github.com/synadia-labs/ezcbor.go/cborgen/templates"
)

const (
	runtimeAlias  = "cbor"
	runtimeImport = "github.com/synadia-labs/ezcbor.go/runtime"

	directiveUnion   = "//cborgen:union"
	directiveVariant = "//cborgen:variant"
)

var templateFuncs = template.FuncMap{
	"rt": runtimeName,
}

func runtimeName(name string) string {
	return runtimeAlias + "." + name
}

var unionTemplate = template.Must(template.New("union.go.tpl").Funcs(templateFuncs).ParseFS(tmplfs.FS, "union.go.tpl"))

// scalarCodecs maps predeclared Go types to their runtime codec.
var scalarCodecs = map[string]string{
	"bool":    "Bool",
	"uint8":   "Uint8",
	"byte":    "Uint8",
	"uint16":  "Uint16",
	"uint32":  "Uint32",
	"uint64":  "Uint64",
	"uint":    "Uint",
	"int8":    "Int8",
	"int16":   "Int16",
	"int32":   "Int32",
	"rune":    "Int32",
	"int64":   "Int64",
	"int":     "Int",
	"float32": "Float32",
	"float64": "Float64",
	"string":  "String",
}

// Options configures how generation runs.
type Options struct {
	// Unions, if non-empty, restricts generation to the named union
	// interfaces. Names must match Go type names exactly.
	Unions []string
	// Logger receives diagnostics; slog.Default() when nil.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

type variantSpec struct {
	Name    string // Go type name of the variant
	Tag     int
	Payload string // Go type the payload codec handles
	Codec   string // codec expression for Payload
	pos     token.Position
}

type unionSpec struct {
	Name     string
	Variants []variantSpec
	pos      token.Position
}

// Run generates union codecs for a single Go source file and writes them
// to outputPath. Nothing is written when the file declares no unions.
func Run(inputPath, outputPath string, opts Options) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	out, err := Generate(inputPath, src, opts)
	if err != nil {
		return err
	}
	if out == nil {
		opts.logger().Debug("no unions found", "file", inputPath)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return err
	}
	opts.logger().Info("generated", "input", inputPath, "output", outputPath)
	return nil
}

// Generate returns the generated source for the file, or nil when it
// declares no unions.
func Generate(filename string, src []byte, opts Options) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	unions, err := collectUnions(fset, file, opts)
	if err != nil {
		return nil, err
	}
	if len(unions) == 0 {
		return nil, nil
	}

	data := struct {
		Package       string
		RuntimeImport string
		Unions        []unionSpec
	}{
		Package:       file.Name.Name,
		RuntimeImport: runtimeImport,
		Unions:        unions,
	}
	var buf bytes.Buffer
	if err := unionTemplate.ExecuteTemplate(&buf, "union.go.tpl", data); err != nil {
		return nil, err
	}

	out, err := imports.Process(filename, buf.Bytes(), nil)
	if err != nil {
		// Fall back to go/format if goimports fails.
		opts.logger().Debug("goimports failed", "file", filename, "err", err)
		if formatted, ferr := format.Source(buf.Bytes()); ferr == nil {
			out = formatted
		} else {
			return nil, fmt.Errorf("format generated code: %w", ferr)
		}
	}
	return out, nil
}

// directives returns the cborgen directive lines of a doc comment.
func directives(groups ...*ast.CommentGroup) []string {
	var out []string
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, "//cborgen:") {
				out = append(out, strings.TrimSpace(c.Text))
			}
		}
	}
	return out
}

func collectUnions(fset *token.FileSet, file *ast.File, opts Options) ([]unionSpec, error) {
	log := opts.logger()

	var allowed map[string]struct{}
	if len(opts.Unions) > 0 {
		allowed = make(map[string]struct{}, len(opts.Unions))
		for _, name := range opts.Unions {
			if name = strings.TrimSpace(name); name != "" {
				allowed[name] = struct{}{}
			}
		}
	}

	types := map[string]*ast.TypeSpec{}
	unions := map[string]*unionSpec{}
	var order []string
	type pending struct {
		ts    *ast.TypeSpec
		union string
		tag   int
		pos   token.Position
	}
	var variants []pending

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			types[ts.Name.Name] = ts
			docs := []*ast.CommentGroup{ts.Doc}
			if len(gd.Specs) == 1 {
				docs = append(docs, gd.Doc)
			}
			for _, d := range directives(docs...) {
				pos := fset.Position(ts.Pos())
				fields := strings.Fields(d)
				switch fields[0] {
				case directiveUnion:
					if _, ok := ts.Type.(*ast.InterfaceType); !ok {
						return nil, fmt.Errorf("%s: %s is not an interface", pos, ts.Name.Name)
					}
					if _, dup := unions[ts.Name.Name]; dup {
						continue
					}
					unions[ts.Name.Name] = &unionSpec{Name: ts.Name.Name, pos: pos}
					order = append(order, ts.Name.Name)
				case directiveVariant:
					if len(fields) != 3 {
						return nil, fmt.Errorf("%s: want %s <Union> <tag>", pos, directiveVariant)
					}
					tag, err := strconv.Atoi(fields[2])
					if err != nil || tag < 0 || tag > cbor.MaxVariantTag {
						return nil, fmt.Errorf("%s: variant tag %q must be 0..%d", pos, fields[2], cbor.MaxVariantTag)
					}
					variants = append(variants, pending{ts: ts, union: fields[1], tag: tag, pos: pos})
				default:
					return nil, fmt.Errorf("%s: unknown directive %s", pos, fields[0])
				}
			}
		}
	}

	for _, p := range variants {
		u, ok := unions[p.union]
		if !ok {
			return nil, fmt.Errorf("%s: %s names unknown union %s", p.pos, p.ts.Name.Name, p.union)
		}
		for _, v := range u.Variants {
			if v.Tag == p.tag {
				return nil, fmt.Errorf("%s: tag %d of %s already used by %s", p.pos, p.tag, p.ts.Name.Name, v.Name)
			}
		}
		payload, codec, err := payloadOf(fset, p.ts, types, unions, u.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", p.pos, p.ts.Name.Name, err)
		}
		u.Variants = append(u.Variants, variantSpec{
			Name:    p.ts.Name.Name,
			Tag:     p.tag,
			Payload: payload,
			Codec:   codec,
			pos:     p.pos,
		})
	}

	var out []unionSpec
	for _, name := range order {
		if allowed != nil {
			if _, ok := allowed[name]; !ok {
				log.Debug("skipping union", "union", name)
				continue
			}
		}
		u := unions[name]
		if len(u.Variants) == 0 {
			return nil, fmt.Errorf("%s: union %s has no variants", u.pos, name)
		}
		slices.SortFunc(u.Variants, func(a, b variantSpec) int { return a.Tag - b.Tag })
		for _, v := range u.Variants {
			log.Debug("variant", "union", name, "tag", v.Tag, "type", v.Name, "codec", v.Codec)
		}
		out = append(out, *u)
	}
	return out, nil
}

// payloadOf returns the payload type and codec expression of a variant.
// Struct variants carry themselves and must implement Marshaler and
// Unmarshaler on their pointer; other variants carry their underlying type.
func payloadOf(fset *token.FileSet, ts *ast.TypeSpec, types map[string]*ast.TypeSpec, unions map[string]*unionSpec, self string) (payload, codec string, err error) {
	if ts.Assign.IsValid() {
		return "", "", fmt.Errorf("type aliases cannot be variants")
	}
	if _, ok := ts.Type.(*ast.StructType); ok {
		return ts.Name.Name, runtimeName("Self") + "[" + ts.Name.Name + "]()", nil
	}
	codec, err = codecExpr(ts.Type, types, unions, self)
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, ts.Type); err != nil {
		return "", "", err
	}
	return buf.String(), codec, nil
}

// codecExpr maps a type expression onto runtime codec constructors.
func codecExpr(expr ast.Expr, types map[string]*ast.TypeSpec, unions map[string]*unionSpec, self string) (string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if name, ok := scalarCodecs[t.Name]; ok {
			return runtimeName(name), nil
		}
		if t.Name == self {
			return "", fmt.Errorf("recursive union %s is not supported", self)
		}
		if _, ok := unions[t.Name]; ok {
			return t.Name + "Codec", nil
		}
		if ts, ok := types[t.Name]; ok {
			if _, ok := ts.Type.(*ast.StructType); ok {
				return runtimeName("Self") + "[" + t.Name + "]()", nil
			}
		}
		return "", fmt.Errorf("unsupported type %s", t.Name)

	case *ast.ParenExpr:
		return codecExpr(t.X, types, unions, self)

	case *ast.ArrayType:
		if t.Len != nil {
			return "", fmt.Errorf("arrays are not supported; use a slice")
		}
		if id, ok := t.Elt.(*ast.Ident); ok && (id.Name == "byte" || id.Name == "uint8") {
			return runtimeName("Bytes"), nil
		}
		elem, err := codecExpr(t.Elt, types, unions, self)
		if err != nil {
			return "", err
		}
		return runtimeName("SliceOf") + "(" + elem + ")", nil

	case *ast.MapType:
		key, err := codecExpr(t.Key, types, unions, self)
		if err != nil {
			return "", err
		}
		if st, ok := t.Value.(*ast.StructType); ok && len(st.Fields.List) == 0 {
			return runtimeName("SetOf") + "(" + key + ")", nil
		}
		val, err := codecExpr(t.Value, types, unions, self)
		if err != nil {
			return "", err
		}
		return runtimeName("MapOf") + "(" + key + ", " + val + ")", nil
	}
	return "", fmt.Errorf("unsupported type expression %T", expr)
}
