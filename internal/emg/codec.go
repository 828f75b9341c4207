package emg

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// gzipLevel matches the compression level used by the upstream tooling that
// produced the containers this codec interoperates with.
const gzipLevel = 4

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads a decomposition container from a JSON file, transparently
// decompressing gzip. The container's per-unit shape invariant is validated
// before it is returned.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container %s: %w", path, err)
	}

	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip container %s: %w", path, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress container %s: %w", path, err)
		}
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("decompress container %s: %w", path, err)
		}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse container %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("container %s: %w", path, err)
	}
	return &f, nil
}

// Save writes a decomposition container as gzip-compressed JSON.
func Save(f *File, path string) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("container for %s: %w", path, err)
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode container for %s: %w", path, err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzipLevel)
	if err != nil {
		return fmt.Errorf("compress container for %s: %w", path, err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compress container for %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress container for %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write container %s: %w", path, err)
	}
	return nil
}
