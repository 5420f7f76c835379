// Package sdlwindow presents packed frames in an SDL window.
package sdlwindow

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kevmo314/camview/pkg/display"
)

// Run opens a window and calls s.Step once per frame until the window is
// closed, Escape is pressed, a step reports Done or ctx is cancelled.
// It must be called from the main goroutine.
func Run(ctx context.Context, opts display.Options, s display.Stepper) error {
	runtime.LockOSThread() // SDL requires main thread
	defer runtime.UnlockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("init SDL: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(opts.Title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(opts.Width), int32(opts.Height), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	var (
		texture       *sdl.Texture
		width, height int
		title         string
		escapeDown    bool
		lastPresent   time.Time
	)
	defer func() {
		if texture != nil {
			texture.Destroy()
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var in display.Input
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				in.Quit = true
			case *sdl.KeyboardEvent:
				switch e.Keysym.Sym {
				case sdl.K_p:
					if e.Type == sdl.KEYUP {
						in.Snapshot = true
					}
				case sdl.K_ESCAPE:
					escapeDown = e.Type == sdl.KEYDOWN
				}
			}
		}
		in.Quit = in.Quit || escapeDown

		out, err := s.Step(ctx, in)
		if err != nil {
			return err
		}
		if out.Done {
			return nil
		}

		if texture == nil || out.Width != width || out.Height != height {
			if texture != nil {
				texture.Destroy()
			}
			// RGB888 is XRGB8888: blue in the lowest byte of each word
			texture, err = renderer.CreateTexture(sdl.PIXELFORMAT_RGB888,
				sdl.TEXTUREACCESS_STREAMING, int32(out.Width), int32(out.Height))
			if err != nil {
				return fmt.Errorf("create texture: %w", err)
			}
			width, height = out.Width, out.Height
		}
		if len(out.Pixels) >= width*height && width*height > 0 {
			if err := texture.Update(nil, unsafe.Pointer(&out.Pixels[0]), width*4); err != nil {
				return fmt.Errorf("update texture: %w", err)
			}
		}
		if out.Title != title {
			window.SetTitle(out.Title)
			title = out.Title
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if wait := opts.UpdateInterval - time.Since(lastPresent); wait > 0 {
			sdl.Delay(uint32(wait / time.Millisecond))
		}
		lastPresent = time.Now()
	}
}
