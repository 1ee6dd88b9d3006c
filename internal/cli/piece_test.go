package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		piece  string
		format string
		single bool
		want   string
	}{
		{"default naming", "", "waves", "png", true, "waves.png"},
		{"default naming multi", "", "waves", "svg", false, "waves.svg"},
		{"single verbatim", "art.png", "waves", "png", true, "art.png"},
		{"single verbatim odd extension", "plot.out", "waves", "png", true, "plot.out"},
		{"multi strips format extension", "art.png", "waves", "svg", false, "art.svg"},
		{"multi keeps other extension", "art.v2", "waves", "svg", false, "art.v2.svg"},
		{"multi bare base", "art", "waves", "pdf", false, "art.pdf"},
		{"stdout", "-", "waves", "png", true, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, tt.piece, tt.format, tt.single)
			if got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q",
					tt.output, tt.piece, tt.format, tt.single, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"png": []byte("png-bytes"),
		"svg": []byte("<svg/>"),
	}

	paths, err := writeArtifacts(artifacts, []string{"png", "svg"}, "waves", filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("wrote %d files, want 2", len(paths))
	}

	for i, want := range []string{filepath.Join(dir, "out.png"), filepath.Join(dir, "out.svg")} {
		if paths[i] != want {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want)
		}
		data, err := os.ReadFile(want)
		if err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", want)
		}
	}
}

func TestWriteArtifactsSkipsMissingFormats(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"png": []byte("png-bytes")}

	paths, err := writeArtifacts(artifacts, []string{"png", "pdf"}, "waves", filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("wrote %d files, want 1 (pdf artifact missing)", len(paths))
	}
	if got, want := paths[0], filepath.Join(dir, "out.png"); got != want {
		t.Errorf("paths[0] = %q, want %q", got, want)
	}
}

func TestWriteArtifactsBadDirectory(t *testing.T) {
	artifacts := map[string][]byte{"png": []byte("png-bytes")}

	_, err := writeArtifacts(artifacts, []string{"png"}, "waves",
		filepath.Join(t.TempDir(), "missing", "out.png"))
	if err == nil {
		t.Fatal("writeArtifacts() into a missing directory should fail")
	}
}
