package display

import (
	"bytes"
	"testing"
)

func TestPackedToRGBA(t *testing.T) {
	src := []uint32{0x00112233, 0xff0a141e}
	dst := make([]byte, 8)
	PackedToRGBA(dst, src)

	want := []byte{0x11, 0x22, 0x33, 0xff, 0x0a, 0x14, 0x1e, 0xff}
	if !bytes.Equal(dst, want) {
		t.Errorf("PackedToRGBA = %v, want %v", dst, want)
	}
}
