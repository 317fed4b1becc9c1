package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// CLI defines the cborinspect command-line interface.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose diagnostics"`

	Classify ClassifyCmd `cmd:"" help:"Classify lead bytes."`
	Diag     DiagCmd     `cmd:"" help:"Print each item of a CBOR sequence in diagnostic notation."`
	Validate ValidateCmd `cmd:"" help:"Check that input is a well-formed sequence of supported items."`
	JSON     JSONCmd     `cmd:"" name:"json" help:"Print each item of a CBOR sequence as JSON."`
	Encode   EncodeCmd   `cmd:"" help:"Encode literal values and print them as hex."`
	YAML     YAMLCmd     `cmd:"" name:"yaml" help:"Encode YAML documents as CBOR."`
}

// env carries the streams and logger handed to every command.
type env struct {
	in  io.Reader
	out io.Writer
	log *slog.Logger
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborinspect"),
		kong.Description("Inspect and produce strict CBOR."),
		kong.UsageOnError(),
	)
	e := &env{in: os.Stdin, out: os.Stdout, log: newLogger(os.Stderr, cli.Verbose)}
	ctx.FatalIfErrorf(ctx.Run(e))
}
