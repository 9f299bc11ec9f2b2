package compressor

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

type ZstdCompressor struct {
	level zstd.EncoderLevel
}

func NewZstd() *ZstdCompressor {
	return &ZstdCompressor{level: zstd.SpeedBestCompression}
}

func (z *ZstdCompressor) Extension() string {
	return ".zst"
}

func (z *ZstdCompressor) Compress(sourcePath, destPath string) error {
	return compressFile(sourcePath, destPath, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(z.level))
	})
}

func (z *ZstdCompressor) Decompress(sourcePath, destPath string) error {
	return decompressFile(sourcePath, destPath, func(r io.Reader) (io.ReadCloser, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	})
}
