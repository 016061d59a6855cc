package audio

import (
	"testing"
)

func Test_s16le_16BitLittleEndian(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	out := s16le(f, []int{0x0102})
	if len(out) != 2 || out[0] != 0x02 || out[1] != 0x01 {
		t.Fatalf("expected [0x02 0x01], got %v", out)
	}
}

func Test_s16le_16BitNegative(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	// -2 is 0xFFFE in two's complement
	out := s16le(f, []int{-2})
	if out[0] != 0xFE || out[1] != 0xFF {
		t.Fatalf("expected [0xFE 0xFF], got %v", out)
	}
}

func Test_s16le_8BitRecentered(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 8}
	out := s16le(f, []int{128, 255, 0})

	// 128 is 8-bit silence and must map to 0
	if out[0] != 0 || out[1] != 0 {
		t.Errorf("sample 128: expected silence [0 0], got [%#x %#x]", out[0], out[1])
	}
	// 255 -> (255-128)<<8 = 32512 = 0x7F00
	if out[2] != 0x00 || out[3] != 0x7F {
		t.Errorf("sample 255: expected [0x00 0x7F], got [%#x %#x]", out[2], out[3])
	}
	// 0 -> (0-128)<<8 = -32768 = 0x8000
	if out[4] != 0x00 || out[5] != 0x80 {
		t.Errorf("sample 0: expected [0x00 0x80], got [%#x %#x]", out[4], out[5])
	}
}

func Test_s16le_24BitDropsLowByte(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 24}
	out := s16le(f, []int{0x123456})
	// 0x123456 >> 8 = 0x1234
	if out[0] != 0x34 || out[1] != 0x12 {
		t.Fatalf("expected [0x34 0x12], got [%#x %#x]", out[0], out[1])
	}
}

func Test_s16le_32BitDropsLowWord(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 32}
	out := s16le(f, []int{0x12345678})
	if out[0] != 0x34 || out[1] != 0x12 {
		t.Fatalf("expected [0x34 0x12], got [%#x %#x]", out[0], out[1])
	}
}

func Test_s16le_Empty(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16}
	if out := s16le(f, nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(out))
	}
}
