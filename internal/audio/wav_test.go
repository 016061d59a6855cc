package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iabetor/voxdub/internal/errs"
)

func TestWriteFileDecodeRoundTrip(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	seg := &Segment{Format: f, Data: []int{0, 1000, -1000, 32767, -32768, 42}}
	path := filepath.Join(t.TempDir(), "out.wav")

	if err := WriteFile(path, seg); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Format != f {
		t.Errorf("format: got %s, want %s", got.Format, f)
	}
	if len(got.Data) != len(seg.Data) {
		t.Fatalf("samples: got %d, want %d", len(got.Data), len(seg.Data))
	}
	for i := range seg.Data {
		if got.Data[i] != seg.Data[i] {
			t.Errorf("sample %d: got %d, want %d", i, got.Data[i], seg.Data[i])
		}
	}
}

func TestWriteFileDecodeRoundTrip_8Bit(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 8}
	seg, err := Silence(0.01, f)
	if err != nil {
		t.Fatalf("Silence failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.wav")

	if err := WriteFile(path, seg); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Format.BitDepth != 8 {
		t.Fatalf("bit depth: got %d, want 8", got.Format.BitDepth)
	}
	for i, v := range got.Data {
		if v != 128 {
			t.Fatalf("8-bit silence sample %d: got %d, want 128", i, v)
		}
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not a wav file"))
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if !errors.Is(err, errs.ErrAudioFormat) {
		t.Errorf("error should be ErrAudioFormat, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	if err == nil || !errors.Is(err, errs.ErrAudioFormat) {
		t.Errorf("error should be ErrAudioFormat, got %v", err)
	}
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	path := filepath.Join(t.TempDir(), "out.wav")

	first := constSegment(f, 100, 1)
	if err := WriteFile(path, first); err != nil {
		t.Fatalf("first WriteFile failed: %v", err)
	}
	second := constSegment(f, 25, 2)
	if err := WriteFile(path, second); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Frames() != 25 {
		t.Errorf("file should hold the second write: got %d frames, want 25", got.Frames())
	}
}

func TestWriteFile_NoTmpResidue(t *testing.T) {
	dir := t.TempDir()
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}

	if err := WriteFile(filepath.Join(dir, "out.wav"), constSegment(f, 10, 1)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteFile_UnwritablePath(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	path := filepath.Join(t.TempDir(), "no-such-dir", "out.wav")

	err := WriteFile(path, constSegment(f, 10, 1))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if !errors.Is(err, errs.ErrIO) {
		t.Errorf("error should be ErrIO, got %v", err)
	}
}
