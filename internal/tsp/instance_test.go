package tsp

import (
	"os"
	"path/filepath"
	"testing"
)

func writeInstance(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write instance file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeInstance(t, "3\n1 0.0 0.0\n3 4.5 -2.0\n2 1.0 1.0\n")

	inst, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if inst.N != 3 {
		t.Errorf("N = %d, want 3", inst.N)
	}
	if inst.X[3] != 4.5 || inst.Y[3] != -2.0 {
		t.Errorf("city 3 = (%f, %f), want (4.5, -2.0)", inst.X[3], inst.Y[3])
	}
	if inst.X[2] != 1.0 || inst.Y[2] != 1.0 {
		t.Errorf("city 2 = (%f, %f), want (1.0, 1.0)", inst.X[2], inst.Y[2])
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := writeInstance(t, "2\n\n1 0 0\n\n2 3 4\n")

	inst, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if inst.X[2] != 3 || inst.Y[2] != 4 {
		t.Errorf("city 2 = (%f, %f), want (3, 4)", inst.X[2], inst.Y[2])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"non-numeric header", "abc\n1 0 0\n"},
		{"zero cities", "0\n"},
		{"negative count", "-3\n"},
		{"index too high", "2\n1 0 0\n3 1 1\n"},
		{"index zero", "2\n0 0 0\n2 1 1\n"},
		{"bad x coordinate", "1\n1 oops 0\n"},
		{"bad y coordinate", "1\n1 0 oops\n"},
		{"missing field", "1\n1 0\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInstance(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load succeeded on %s, want error", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}
