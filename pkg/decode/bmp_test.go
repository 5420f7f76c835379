package decode

import (
	"bytes"
	"image"
	"testing"
)

func TestBMPRoundTrip(t *testing.T) {
	src := NewRGB(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetRGB(x, y, uint8(40*x), uint8(100*y), 200)
		}
	}

	var buf bytes.Buffer
	if err := EncodeBMP(&buf, src); err != nil {
		t.Fatalf("EncodeBMP failed: %v", err)
	}
	got, err := DecodeBMP(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBMP failed: %v", err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("Bounds() = %v, want %v", got.Bounds(), src.Bounds())
	}

	want := make([]uint32, 6)
	have := make([]uint32, 6)
	Fill(want, src)
	Fill(have, got)
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("pixel %d = %08x, want %08x", i, have[i], want[i])
		}
	}
}

func TestDecodeBMPInvalid(t *testing.T) {
	if _, err := DecodeBMP([]byte("BM garbage")); err == nil {
		t.Error("DecodeBMP of garbage succeeded, want error")
	}
}
