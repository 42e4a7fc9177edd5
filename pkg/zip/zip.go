package zip

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// Zip returns the gzip-compressed payload
func Zip(payload []byte) ([]byte, error) {
	var handle bytes.Buffer

	zipWriter, err := gzip.NewWriterLevel(&handle, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("Zip - %w", err)
	}
	if _, err = zipWriter.Write(payload); err != nil {
		return nil, fmt.Errorf("Zip - %w", err)
	}
	if err = zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("Zip - %w", err)
	}

	return handle.Bytes(), nil
}

// Unzip reverses Zip; corrupt input is reported, never returned half-read
func Unzip(compressed []byte) ([]byte, error) {
	zipReader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("Unzip - %w", err)
	}
	defer zipReader.Close()

	unzipped, err := io.ReadAll(zipReader)
	if err != nil {
		return nil, fmt.Errorf("Unzip - %w", err)
	}
	return unzipped, nil
}
