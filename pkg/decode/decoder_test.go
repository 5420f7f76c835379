package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestYUYVDecoder(t *testing.T) {
	d, err := NewDecoder([4]byte{'Y', 'U', 'Y', 'V'}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	pkt := []byte{
		50, 128, 200, 128,
		0, 128, 255, 128,
	}
	img, err := Decode(d, pkt)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	ycc, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("Decode returned %T, want *image.YCbCr", img)
	}
	if ycc.SubsampleRatio != image.YCbCrSubsampleRatio422 {
		t.Errorf("SubsampleRatio = %v, want 4:2:2", ycc.SubsampleRatio)
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 50}, {1, 0, 200}, {0, 1, 0}, {1, 1, 255},
	}
	for _, tt := range tests {
		got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA)
		if got.R != tt.want || got.G != tt.want || got.B != tt.want {
			t.Errorf("At(%d, %d) = %v, want gray %d", tt.x, tt.y, got, tt.want)
		}
	}

	if _, err := d.ReadFrame(); !errors.Is(err, ErrEAGAIN) {
		t.Errorf("ReadFrame on empty decoder error = %v, want ErrEAGAIN", err)
	}
}

func TestUncompressedShortFrame(t *testing.T) {
	d, err := NewDecoder([4]byte{'Y', 'U', 'Y', 'V'}, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write(make([]byte, 10)); !errors.Is(err, ErrShortFrame) {
		t.Errorf("Write error = %v, want ErrShortFrame", err)
	}
}

func TestRGB24Decoder(t *testing.T) {
	d, err := NewDecoder([4]byte{'R', 'G', 'B', '3'}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Decode(d, []byte{9, 8, 7})
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]uint32, 1)
	Fill(dst, FromImage(img))
	if dst[0] != Pack(9, 8, 7) {
		t.Errorf("dst[0] = %08x, want %08x", dst[0], Pack(9, 8, 7))
	}
}

func TestBGR24Decoder(t *testing.T) {
	d, err := NewDecoder([4]byte{'B', 'G', 'R', '3'}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Decode(d, []byte{7, 8, 9})
	if err != nil {
		t.Fatal(err)
	}
	if got := FromImage(img).RGBAAt(0, 0); got != (color.RGBA{9, 8, 7, 0xff}) {
		t.Errorf("RGBAAt(0, 0) = %v, want {9 8 7 255}", got)
	}
}

func TestMJPEGDecoder(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 8))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}

	d, err := NewDecoder([4]byte{'M', 'J', 'P', 'G'}, 16, 8)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Decode(d, buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("Bounds() = %v, want %v", img.Bounds(), src.Bounds())
	}

	if _, err := d.Write([]byte("not a jpeg")); err == nil {
		t.Error("Write of garbage succeeded, want error")
	}
}

func TestNewDecoderUnsupported(t *testing.T) {
	if _, err := NewDecoder([4]byte{'H', '2', '6', '4'}, 640, 480); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("NewDecoder(H264) error = %v, want ErrUnsupportedFormat", err)
	}
}

// stripDHT removes every Huffman table segment, leaving an abbreviated
// frame like the ones many webcams stream.
func stripDHT(t *testing.T, data []byte) []byte {
	t.Helper()
	out := append([]byte(nil), data[:2]...)
	for i := 2; i+4 <= len(data); {
		m := data[i+1]
		if m == markerSOS {
			return append(out, data[i:]...)
		}
		n := int(data[i+2])<<8 | int(data[i+3])
		if m != markerDHT {
			out = append(out, data[i:i+2+n]...)
		}
		i += 2 + n
	}
	t.Fatal("no scan in encoded jpeg")
	return nil
}

func TestMJPEGDecoderWithoutHuffmanTables(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()
	abbreviated := stripDHT(t, full)
	if bytes.Contains(abbreviated, []byte{0xff, markerDHT}) {
		t.Fatal("abbreviated frame still carries a Huffman table")
	}
	if _, err := jpeg.Decode(bytes.NewReader(abbreviated)); err == nil {
		t.Fatal("image/jpeg decoded a frame without Huffman tables, want error")
	}

	want, err := jpeg.Decode(bytes.NewReader(full))
	if err != nil {
		t.Fatal(err)
	}
	d, _ := NewMJPEGDecoder()
	got, err := Decode(d, abbreviated)
	if err != nil {
		t.Fatalf("Decode of abbreviated frame failed: %v", err)
	}
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {31, 0}, {16, 8}, {31, 15}} {
		if got.At(p.X, p.Y) != want.At(p.X, p.Y) {
			t.Errorf("At(%v) = %v, want %v", p, got.At(p.X, p.Y), want.At(p.X, p.Y))
		}
	}
}

func TestMJPEGDecoderRejectsNonJPEG(t *testing.T) {
	d, _ := NewMJPEGDecoder()
	for _, pkt := range [][]byte{nil, {0xff}, []byte("RIFF....")} {
		if _, err := d.Write(pkt); !errors.Is(err, ErrCorruptFrame) {
			t.Errorf("Write(%q) = %v, want ErrCorruptFrame", pkt, err)
		}
	}
}
