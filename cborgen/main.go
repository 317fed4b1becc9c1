package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/synadia-labs/ezcbor.go/cborgen/core"
)

// CLI defines the cborgen command-line interface.
//
// In directory mode, each source file declaring a union gets its own
// "*_cbor.go" companion file (recursive) and the --output flag is rejected.
type CLI struct {
	Input   string   `short:"i" help:"Input Go file or directory (recursive)" default:"."`
	Output  string   `short:"o" help:"Output file (file input only; defaults to {input}_cbor.go)"`
	Unions  []string `short:"u" help:"Only generate for these union interfaces (may be repeated)"`
	Verbose bool     `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborgen"),
		kong.Description("Generate tagged-union CBOR codecs from //cborgen directives."),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cli *CLI) error {
	opts := core.Options{Unions: cli.Unions, Logger: newLogger(cli.Verbose)}

	input := strings.TrimSpace(cli.Input)
	if input == "" {
		input = "."
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		if cli.Output != "" {
			return errors.New("--output is not allowed when input is a directory")
		}
		return runForDir(input, opts)
	}

	out := cli.Output
	if strings.TrimSpace(out) == "" {
		out = defaultOutputPath(input)
	}
	return core.Run(input, out, opts)
}

// runForDir walks a directory tree and generates a companion
// "*_cbor.go" file for each Go source file that declares a union.
func runForDir(dir string, opts core.Options) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", path, err)
		}
		if entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_cbor.go") {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		return core.Run(path, defaultOutputPath(path), opts)
	})
}

// defaultOutputPath derives the "*_cbor.go" filename for
// a given input Go file path.
func defaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	if !strings.HasSuffix(base, ".go") {
		return filepath.Join(dir, base+"_cbor.go")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+"_cbor.go")
}
