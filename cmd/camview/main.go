package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/kevmo314/camview/internal/config"
	"github.com/kevmo314/camview/internal/logging"
	"github.com/kevmo314/camview/internal/viewer"
	"github.com/kevmo314/camview/pkg/capture"
	"github.com/kevmo314/camview/pkg/display"
	"github.com/kevmo314/camview/pkg/display/ebitenwindow"
	"github.com/kevmo314/camview/pkg/display/sdlwindow"
	"github.com/kevmo314/camview/pkg/menu"
	"github.com/kevmo314/camview/pkg/snapshot"
)

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	source := flag.String("source", "", "capture source: v4l2 or pattern")
	backend := flag.String("display", "", "window backend: sdl or ebiten")
	width := flag.Int("width", 0, "window width")
	height := flag.Int("height", 0, "window height")
	snapshotDir := flag.String("snapshot-dir", "", "directory for snapshots (P key)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	showMenu := flag.Bool("menu", true, "show the camera and format menu in the terminal")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [camera name]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Camera = flag.Arg(0)
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *backend != "" {
		cfg.Display = *backend
	}
	if *width != 0 {
		cfg.Window.Width = *width
	}
	if *height != 0 {
		cfg.Window.Height = *height
	}
	if *snapshotDir != "" {
		cfg.Snapshot.Dir = *snapshotDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid options: %v", err)
	}

	var (
		term *menu.Terminal
		logw io.Writer = os.Stderr
		view viewer.MenuView
	)
	if *showMenu {
		term = menu.NewTerminal()
		logw = term.LogWriter()
		view = term
	}
	logger, err := logging.Setup(logw, cfg.LogLevel)
	if err != nil {
		fatalf("Failed to set up logging: %v", err)
	}

	src, err := capture.NewSource(cfg.Source)
	if err != nil {
		fatalf("Failed to create capture source: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v, err := viewer.New(ctx, viewer.Options{
		Source:    src,
		Camera:    cfg.Camera,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Snapshots: snapshot.NewWriter(cfg.Snapshot.Dir, cfg.Snapshot.Prefix),
		Menu:      view,
		Logger:    logger,
	})
	if err != nil {
		fatalf("Failed to start camera: %v", err)
	}
	defer v.Close()

	if term != nil {
		go func() {
			if err := term.Run(); err != nil {
				logger.Error("menu stopped", "error", err)
			}
			// quitting the menu closes the window too
			stop()
		}()
		defer term.Stop()
	}

	opts := display.Options{
		Title:          "Camera",
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		UpdateInterval: cfg.Window.UpdateInterval,
	}
	switch cfg.Display {
	case "ebiten":
		err = ebitenwindow.Run(ctx, opts, v)
	default:
		err = sdlwindow.Run(ctx, opts, v)
	}
	if err != nil {
		if term != nil {
			term.Stop()
		}
		fatalf("Display error: %v", err)
	}
}
