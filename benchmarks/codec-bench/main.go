package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"testing"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/synadia-labs/ezcbor.go/benchmarks"
)

// CLI defines the codec-bench command-line interface.
type CLI struct {
	Len     int  `short:"n" help:"Number of int32 elements in the sequence." default:"1000000"`
	Verbose bool `short:"v" help:"Enable verbose diagnostics"`
}

type benchResult struct {
	Name             string
	Size             int
	ZstdSize         int
	LZ4Size          int
	EncNsPerOp       float64
	EncMBPerSec      float64
	EncAllocsPerOp   float64
	EncMemBytesPerOp float64
	DecNsPerOp       float64
	DecMBPerSec      float64
	DecAllocsPerOp   float64
	DecMemBytesPerOp float64
	Err              error
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("codec-bench"),
		kong.Description("Compare int32 sequence encode/decode across CBOR and MessagePack codecs."),
	)
	if cli.Len < 0 {
		ctx.Fatalf("--len must not be negative")
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	log.Info("building sequence", "len", cli.Len)
	v := benchmarks.Int32Sequence(cli.Len)

	var rows []benchResult
	for _, c := range benchmarks.SeqCodecs() {
		log.Debug("running", "codec", c.Name)
		rows = append(rows, runCodecBench(c, v))
	}
	printTable(os.Stdout, rows, cli.Len)
}

func runCodecBench(c benchmarks.SeqCodec, v []int32) benchResult {
	enc, err := c.Encode(nil, v)
	res := benchResult{Name: c.Name, Size: len(enc), Err: err}
	if err == nil {
		var got []int32
		if got, err = c.Decode(enc); err == nil && !slices.Equal(got, v) {
			err = fmt.Errorf("round trip mismatch")
		}
		res.Err = err
	}
	if res.Err != nil || res.Size == 0 {
		return res
	}
	if res.ZstdSize, res.LZ4Size, err = benchmarks.CompressedSizes(enc); err != nil {
		res.Err = err
		return res
	}

	mbps := func(size int, nsPerOp float64) float64 {
		if nsPerOp <= 0 {
			return 0
		}
		bytesPerSec := float64(size) * (1e9 / nsPerOp)
		return bytesPerSec / (1024 * 1024)
	}

	br := testing.Benchmark(func(b *testing.B) {
		buf := make([]byte, 0, len(enc))
		b.ReportAllocs()
		for b.Loop() {
			buf, _ = c.Encode(buf[:0], v)
		}
	})
	res.EncNsPerOp = float64(br.NsPerOp())
	res.EncAllocsPerOp = float64(br.AllocsPerOp())
	res.EncMemBytesPerOp = float64(br.MemBytes) / float64(br.N)
	res.EncMBPerSec = mbps(res.Size, res.EncNsPerOp)

	br = testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = c.Decode(enc)
		}
	})
	res.DecNsPerOp = float64(br.NsPerOp())
	res.DecAllocsPerOp = float64(br.AllocsPerOp())
	res.DecMemBytesPerOp = float64(br.MemBytes) / float64(br.N)
	res.DecMBPerSec = mbps(res.Size, res.DecNsPerOp)
	return res
}

func printTable(w io.Writer, rows []benchResult, n int) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# int32 Sequence Benchmarks (len=%d)\n", n)
	fmt.Fprintf(tw, "# Timestamp: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintln(tw, "Codec\tBytes/op\tzstd B\tlz4 B\tEnc MB/s\tEnc ns/op\tEnc Allocs/op\tDec MB/s\tDec ns/op\tDec Allocs/op\tDec Mem/op (B)\tError")
	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t-\t-\t-\t-\t-\t-\t%v\n", r.Name, r.Size, r.Err)
			continue
		}
		if r.Size == 0 || r.EncNsPerOp <= 0 {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\t-\t-\t-\t-\t-\t-\t-\t(no data)\n", r.Name, r.Size)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.0f\t%.2f\t%.2f\t%.0f\t%.2f\t%.0f\t-\n",
			r.Name, r.Size, r.ZstdSize, r.LZ4Size,
			r.EncMBPerSec, r.EncNsPerOp, r.EncAllocsPerOp,
			r.DecMBPerSec, r.DecNsPerOp, r.DecAllocsPerOp, r.DecMemBytesPerOp)
	}
	_ = tw.Flush()
}
