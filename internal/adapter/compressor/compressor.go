package compressor

import (
	"fmt"
	"io"
	"os"

	"github.com/semmidev/zabbix-backup/internal/domain"
)

// New returns the compressor for the configured algorithm name.
func New(algorithm string) (domain.Compressor, error) {
	switch algorithm {
	case "", "gzip":
		return NewGzip(), nil
	case "zstd":
		return NewZstd(), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q", algorithm)
	}
}

func compressFile(sourcePath, destPath string, newWriter func(io.Writer) (io.WriteCloser, error)) (err error) {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create dest file: %w", err)
	}
	defer func() {
		if cerr := destFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close dest file: %w", cerr)
		}
	}()

	writer, err := newWriter(destFile)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}

	if _, err := io.Copy(writer, sourceFile); err != nil {
		writer.Close()
		return fmt.Errorf("failed to compress: %w", err)
	}

	// The stream trailer is only written on Close.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish compressed stream: %w", err)
	}

	return destFile.Sync()
}

func decompressFile(sourcePath, destPath string, newReader func(io.Reader) (io.ReadCloser, error)) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	reader, err := newReader(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer reader.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create dest file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, reader); err != nil {
		return fmt.Errorf("failed to decompress: %w", err)
	}

	return nil
}
