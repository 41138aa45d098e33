package audio

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not found in PATH", name)
	}
}

func stereoFixture(t *testing.T, rate, n int) string {
	t.Helper()
	frames := make([][]int, n)
	for i := range frames {
		frames[i] = []int{8000, -8000}
	}
	return writeTestWAV(t, rate, 2, frames)
}

func TestConvertToMonoWAV(t *testing.T) {
	requireTool(t, "ffmpeg")

	src := stereoFixture(t, 44100, 44100)
	outDir := t.TempDir()

	got, err := ConvertToMonoWAV(context.Background(), src, outDir, ConvertWAVConfig{})
	if err != nil {
		t.Fatalf("ConvertToMonoWAV failed: %v", err)
	}
	if !strings.HasSuffix(got, ".wav") {
		t.Errorf("Output path %q should end in .wav", got)
	}

	samples, rate, err := ReadWAV(got)
	if err != nil {
		t.Fatalf("Reading converted file failed: %v", err)
	}
	if rate != 22050 {
		t.Errorf("Expected the model rate 22050, got %d", rate)
	}
	if len(samples) == 0 {
		t.Error("Converted file holds no samples")
	}
}

func TestConvertToMonoWAVMissingInput(t *testing.T) {
	requireTool(t, "ffmpeg")

	_, err := ConvertToMonoWAV(context.Background(),
		filepath.Join(t.TempDir(), "missing.mp3"), t.TempDir(), ConvertWAVConfig{})
	if err == nil {
		t.Error("Expected an error for a missing input file")
	}
}
