// Package ebitenwindow presents packed frames with ebiten.
package ebitenwindow

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/kevmo314/camview/pkg/display"
)

type game struct {
	ctx     context.Context
	stepper display.Stepper
	opts    display.Options

	frame *ebiten.Image
	rgba  []byte
	title string
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	in := display.Input{
		Snapshot: inpututil.IsKeyJustReleased(ebiten.KeyP),
		Quit:     ebiten.IsKeyPressed(ebiten.KeyEscape),
	}
	out, err := g.stepper.Step(g.ctx, in)
	if err != nil {
		return err
	}
	if out.Done {
		return ebiten.Termination
	}

	n := out.Width * out.Height
	if n == 0 || len(out.Pixels) < n {
		return nil
	}
	if g.frame == nil || g.frame.Bounds().Dx() != out.Width || g.frame.Bounds().Dy() != out.Height {
		g.frame = ebiten.NewImage(out.Width, out.Height)
		g.rgba = make([]byte, 4*n)
	}
	display.PackedToRGBA(g.rgba, out.Pixels[:n])
	g.frame.WritePixels(g.rgba)

	if out.Title != g.title {
		ebiten.SetWindowTitle(out.Title)
		g.title = out.Title
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	screen.DrawImage(g.frame, &ebiten.DrawImageOptions{})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.frame == nil {
		return g.opts.Width, g.opts.Height
	}
	return g.frame.Bounds().Dx(), g.frame.Bounds().Dy()
}

// Run opens a window and calls s.Step once per tick until the window is
// closed, Escape is pressed, a step reports Done or ctx is cancelled.
// It must be called from the main goroutine.
func Run(ctx context.Context, opts display.Options, s display.Stepper) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	if opts.UpdateInterval > 0 {
		ebiten.SetTPS(int(time.Second / opts.UpdateInterval))
	}
	return ebiten.RunGame(&game{ctx: ctx, stepper: s, opts: opts, title: opts.Title})
}
