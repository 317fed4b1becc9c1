package benchmarks

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Fixed-width integers trade wire size for decode speed; the compressed
// sizes show how much of that overhead a transport compressor recovers.

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("benchmarks: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("benchmarks: zstd decoder initialization failed: " + err.Error())
	}
}

// CompressedSizes returns the zstd and block-mode LZ4 sizes of data. Both
// are verified to decompress back to data. An LZ4 size of len(data) means
// the block was incompressible.
func CompressedSizes(data []byte) (zstdLen, lz4Len int, err error) {
	z := zstdEncoder.EncodeAll(data, nil)
	back, err := zstdDecoder.DecodeAll(z, make([]byte, 0, len(data)))
	if err != nil {
		return 0, 0, fmt.Errorf("zstd decompress: %w", err)
	}
	if !bytes.Equal(back, data) {
		return 0, 0, fmt.Errorf("zstd round trip mismatch")
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("lz4 compress: %w", err)
	}
	if written == 0 {
		return len(z), len(data), nil
	}
	out := make([]byte, len(data))
	read, err := lz4.UncompressBlock(dst[:written], out)
	if err != nil {
		return 0, 0, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != len(data) || !bytes.Equal(out, data) {
		return 0, 0, fmt.Errorf("lz4 round trip mismatch")
	}
	return len(z), written, nil
}
