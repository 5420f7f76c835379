// Package display defines the contract between a window backend and the
// code that produces frames for it.
package display

import (
	"context"
	"time"
)

// Input is the user input collected by the window since the last step.
type Input struct {
	// Snapshot is set when the snapshot key was released.
	Snapshot bool
	// Quit is set when the window was closed or Escape is held.
	Quit bool
}

// Output is one presented frame. Pixels holds Width*Height packed 0RGB
// cells in raster order.
type Output struct {
	Pixels []uint32
	Width  int
	Height int
	Title  string
	Done   bool
}

// Stepper produces a frame for every iteration of a window loop.
type Stepper interface {
	Step(ctx context.Context, in Input) (Output, error)
}

// PackedToRGBA expands packed 0RGB cells into RGBA bytes with opaque alpha.
// dst must hold at least 4*len(src) bytes.
func PackedToRGBA(dst []byte, src []uint32) {
	for i, c := range src {
		d := dst[i*4 : i*4+4 : i*4+4]
		d[0] = uint8(c >> 16)
		d[1] = uint8(c >> 8)
		d[2] = uint8(c)
		d[3] = 0xff
	}
}

// Options configures a window backend.
type Options struct {
	Title  string
	Width  int
	Height int
	// UpdateInterval is the minimum time between presented frames.
	UpdateInterval time.Duration
}
