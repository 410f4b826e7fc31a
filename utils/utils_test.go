package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestUtils_ShouldWriteFileAtomically(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "src", "shader_sources.c")

	if err := WriteFileAtomic(name, []byte("first"), 0644); err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	if err := WriteFileAtomic(name, []byte("second"), 0644); err != nil {
		t.Fatalf("could not replace file: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("could not read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected the file content to be replaced, got: %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(name))
	if err != nil {
		t.Fatalf("could not read directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("the temporary files should have been removed, got %d entries", len(entries))
	}
}

func TestUtils_ShouldFailWritingIntoFile(t *testing.T) {
	dir := t.TempDir()
	parent := filepath.Join(dir, "file")
	if err := os.WriteFile(parent, nil, 0644); err != nil {
		t.Fatalf("could not create file: %v", err)
	}
	if err := WriteFileAtomic(filepath.Join(parent, "out.c"), []byte("x"), 0644); err == nil {
		t.Errorf("writing below a regular file should fail")
	}
}

func TestUtils_ShouldCleanUpOnFailedRename(t *testing.T) {
	dir := t.TempDir()
	// The target path is an existing directory: the temporary file is created
	// next to it, but the final rename fails.
	target := filepath.Join(dir, "out")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatalf("could not create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0644); err != nil {
		t.Fatalf("could not create file: %v", err)
	}
	if err := WriteFileAtomic(target, []byte("x"), 0644); err == nil {
		t.Errorf("replacing a non-empty directory should fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("could not read directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("the temporary file should have been removed, got %d entries", len(entries))
	}
}

func TestUtils_FormatTime(t *testing.T) {
	testCases := map[time.Duration]string{
		1500 * time.Millisecond:                     "1.50s",
		90 * time.Second:                            "1m 30.00s",
		2*time.Hour + 5*time.Minute + 3*time.Second: "2h 5m 3.00s",
		26 * time.Hour:                              "1d 2h 0m 0.00s",
	}
	for d, want := range testCases {
		if got := FormatTime(d); got != want {
			t.Errorf("FormatTime(%v): expected %q, got %q", d, want, got)
		}
	}
}

func TestUtils_DecorateText(t *testing.T) {
	noColor := NoColor
	defer func() { NoColor = noColor }()

	NoColor = false
	if got := DecorateText("done", SuccessMessage); got != SuccessColor+"done"+DefaultColor {
		t.Errorf("unexpected decoration: %q", got)
	}
	if got := DecorateText("failed", ErrorMessage); !strings.HasPrefix(got, ErrorColor) {
		t.Errorf("unexpected decoration: %q", got)
	}

	NoColor = true
	if got := DecorateText("done", SuccessMessage); got != "done" {
		t.Errorf("the text should not be decorated, got: %q", got)
	}
}
