package readfile

import (
	"bytes"
	"os"
)

// ReadNormalized reads path and converts Windows line endings to Unix so
// parser positions line up with rendered lines.
func ReadNormalized(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(data), nil
}

// Normalize converts CRLF pairs to LF. Standalone carriage returns are kept.
func Normalize(data []byte) []byte {
	if !bytes.Contains(data, []byte("\r\n")) {
		return data
	}
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}
