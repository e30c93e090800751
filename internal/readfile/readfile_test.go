package readfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "empty file",
			in:   "",
			out:  "",
		},
		{
			name: "unix newlines untouched",
			in:   "one\ntwo\n",
			out:  "one\ntwo\n",
		},
		{
			name: "windows newlines",
			in:   "one\r\ntwo\r\n",
			out:  "one\ntwo\n",
		},
		{
			name: "standalone carriage returns preserved",
			in:   "a\rb\n\r\n",
			out:  "a\rb\n\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "input.py")
			if err := os.WriteFile(path, []byte(tc.in), 0o644); err != nil {
				t.Fatalf("write temp file: %v", err)
			}

			got, err := ReadNormalized(path)
			if err != nil {
				t.Fatalf("ReadNormalized: %v", err)
			}
			if string(got) != tc.out {
				t.Fatalf("content: got %q want %q", got, tc.out)
			}
		})
	}
}

func TestReadNormalizedMissingFile(t *testing.T) {
	if _, err := ReadNormalized(filepath.Join(t.TempDir(), "absent.py")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
