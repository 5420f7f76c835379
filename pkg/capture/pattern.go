package capture

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/google/uuid"

	"github.com/kevmo314/camview/pkg/decode"
)

var patternNamespace = uuid.MustParse("6f6a2d4c-8b1e-4c1a-9a55-63616d766965")

var patternFormats = []Format{
	{PixelFormat: "RGB3", Width: 320, Height: 240, FPS: 30},
	{PixelFormat: "RGB3", Width: 640, Height: 480, FPS: 30},
	{PixelFormat: "YUYV", Width: 1280, Height: 720, FPS: 15},
}

var barColors = [][3]uint8{
	{255, 255, 255}, {255, 255, 0}, {0, 255, 255}, {0, 255, 0},
	{255, 0, 255}, {255, 0, 0}, {0, 0, 255}, {0, 0, 0},
}

// PatternSource is a synthetic camera that renders scrolling colour bars.
type PatternSource struct {
	names []string
}

func NewPatternSource(names ...string) *PatternSource {
	if len(names) == 0 {
		names = []string{"Test Pattern"}
	}
	return &PatternSource{names: names}
}

func (s *PatternSource) Devices(ctx context.Context) ([]Device, error) {
	devices := make([]Device, 0, len(s.names))
	for _, name := range s.names {
		devices = append(devices, Device{
			ID:   uuid.NewSHA1(patternNamespace, []byte(name)).String(),
			Name: name,
		})
	}
	return devices, nil
}

func (s *PatternSource) Open(ctx context.Context, dev Device) (Session, error) {
	devices, _ := s.Devices(ctx)
	for _, d := range devices {
		if d == dev {
			ps := &patternSession{dev: dev}
			if err := ps.SetFormat(ctx, patternFormats[0]); err != nil {
				return nil, err
			}
			return ps, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, dev.Name)
}

type patternSession struct {
	dev    Device
	format Format
	dec    decode.VideoDecoder
	frame  int
	closed bool
}

func (s *patternSession) Device() Device { return s.dev }

func (s *patternSession) Formats() []Format {
	return append([]Format(nil), patternFormats...)
}

func (s *patternSession) Format() Format { return s.format }

func (s *patternSession) SetFormat(ctx context.Context, f Format) error {
	if s.closed {
		return ErrClosed
	}
	if !hasFormat(patternFormats, f) {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f.Name())
	}
	dec, err := decode.NewDecoder(f.FourCC(), f.Width, f.Height)
	if err != nil {
		return err
	}
	s.format = f
	s.dec = dec
	return nil
}

func (s *patternSession) Capture(ctx context.Context) (image.Image, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pkt := renderBars(s.format, s.frame)
	s.frame++
	return decode.Decode(s.dec, pkt)
}

func (s *patternSession) Close() error {
	s.closed = true
	return nil
}

// renderBars draws vertical colour bars shifted left by one pixel per frame.
func renderBars(f Format, frame int) []byte {
	w, h := f.Width, f.Height
	bar := func(x int) [3]uint8 {
		return barColors[((x+frame)%w)*len(barColors)/w]
	}
	switch f.PixelFormat {
	case "YUYV":
		pkt := make([]byte, w*h*2)
		for x := 0; x < w; x += 2 {
			y0, cb, cr := rgbToYCbCr(bar(x))
			y1, _, _ := rgbToYCbCr(bar(x + 1))
			for y := 0; y < h; y++ {
				i := y*w*2 + x*2
				pkt[i], pkt[i+1], pkt[i+2], pkt[i+3] = y0, cb, y1, cr
			}
		}
		return pkt
	default:
		pkt := make([]byte, w*h*3)
		for x := 0; x < w; x++ {
			c := bar(x)
			for y := 0; y < h; y++ {
				i := (y*w + x) * 3
				pkt[i], pkt[i+1], pkt[i+2] = c[0], c[1], c[2]
			}
		}
		return pkt
	}
}

func rgbToYCbCr(c [3]uint8) (uint8, uint8, uint8) {
	return color.RGBToYCbCr(c[0], c[1], c[2])
}
