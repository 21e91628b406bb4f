// Package input loads the entire JSON document into one contiguous
// byte buffer. The parser slices directly into this buffer, so it must
// stay alive (and unmodified) for the whole run.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"jsontab/internal/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads the whole file at path into memory. Files ending in .gz,
// or starting with the gzip magic bytes, are transparently
// decompressed; the decompressed bytes become the input buffer.
func Load(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", path),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", path),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", path),
			errors.ErrFileEmpty,
		)
	}

	if strings.HasSuffix(path, ".gz") || bytes.HasPrefix(data, gzipMagic) {
		return gunzip(data, path)
	}
	return data, nil
}

// ReadAll consumes an entire stream (piped stdin) into the input
// buffer, applying the same transparent gzip handling as Load.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	if bytes.HasPrefix(data, gzipMagic) {
		return gunzip(data, "stdin")
	}
	return data, nil
}

func gunzip(data []byte, name string) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open gzip stream '%s'", name),
			err,
		)
	}
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to decompress '%s'", name),
			err,
		)
	}
	if len(out) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("decompressed input '%s' is empty", name),
			errors.ErrFileEmpty,
		)
	}
	return out, nil
}
