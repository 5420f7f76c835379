// Package viewer drives a capture session into a display window: it polls
// the menu, captures and converts frames, saves snapshots and tracks the
// frame rate.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/kevmo314/camview/pkg/capture"
	"github.com/kevmo314/camview/pkg/decode"
	"github.com/kevmo314/camview/pkg/display"
	"github.com/kevmo314/camview/pkg/fps"
	"github.com/kevmo314/camview/pkg/menu"
	"github.com/kevmo314/camview/pkg/snapshot"
)

// MenuView shows the camera and format menu and reports selected ids.
type MenuView interface {
	Show(m *menu.Menu)
	Selected() <-chan int
	SetStatus(text string)
}

type Options struct {
	Source capture.Source
	// Camera is the device name to start with; empty or unknown names
	// start the first device.
	Camera    string
	Width     int
	Height    int
	Snapshots *snapshot.Writer
	// Menu may be nil, in which case no menu is shown.
	Menu   MenuView
	Logger *slog.Logger
}

type Viewer struct {
	source  capture.Source
	devices []capture.Device
	session capture.Session
	ids     *menu.IDManager
	menu    *menu.Menu
	view    MenuView
	snaps   *snapshot.Writer
	fps     *fps.Counter
	logger  *slog.Logger
	log     *slog.Logger // logger with the session attached

	frame  *decode.RGB
	pixels []uint32
}

var _ display.Stepper = (*Viewer)(nil)

func New(ctx context.Context, opts Options) (*Viewer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	snaps := opts.Snapshots
	if snaps == nil {
		snaps = snapshot.NewWriter("", snapshot.DefaultPrefix)
	}

	devices, err := opts.Source.Devices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, capture.ErrNoDevices
	}

	v := &Viewer{
		source:  opts.Source,
		devices: devices,
		ids:     menu.NewIDManager(),
		view:    opts.Menu,
		snaps:   snaps,
		fps:     fps.NewCounter(),
		logger:  logger,
		log:     logger,
		frame:   decode.NewRGB(image.Rect(0, 0, opts.Width, opts.Height)),
		pixels:  make([]uint32, opts.Width*opts.Height),
	}

	dev, ok := v.device(opts.Camera)
	if ok {
		logger.Info("start camera", "camera", dev.Name)
	} else {
		dev = devices[0]
		logger.Info("start default camera", "camera", dev.Name)
	}
	if err := v.open(ctx, dev); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Viewer) device(name string) (capture.Device, bool) {
	for _, d := range v.devices {
		if d.Name == name {
			return d, true
		}
	}
	return capture.Device{}, false
}

// open replaces the active session with one on dev. The previous session
// stays active if dev cannot be opened.
func (v *Viewer) open(ctx context.Context, dev capture.Device) error {
	sess, err := v.source.Open(ctx, dev)
	if err != nil {
		return fmt.Errorf("open %s: %w", dev.Name, err)
	}
	if v.session != nil {
		if err := v.session.Close(); err != nil {
			v.log.Warn("close previous session", "error", err)
		}
	}
	v.session = sess
	v.log = v.logger.With("session", uuid.New().String(), "camera", dev.Name)
	v.log.Info("camera started", "format", sess.Format().Name(), "formats", len(sess.Formats()))

	v.buildMenu()
	v.updateStatus()
	return nil
}

func (v *Viewer) buildMenu() {
	m := menu.NewWithIDs(v.ids)
	cameras := make([]string, 0, len(v.devices))
	for _, d := range v.devices {
		cameras = append(cameras, d.Name)
	}
	m.AddGroup(menu.CamerasTitle, cameras)

	var formats []string
	for _, f := range v.session.Formats() {
		formats = append(formats, f.Name())
	}
	sort.Strings(formats)
	m.AddGroup(menu.FormatsTitle, formats)
	v.menu = m

	if v.view == nil {
		return
	}
	// ids queued against the old menu are stale
	for drained := false; !drained; {
		select {
		case <-v.view.Selected():
		default:
			drained = true
		}
	}
	v.view.Show(m)
}

func (v *Viewer) updateStatus() {
	if v.view == nil {
		return
	}
	v.view.SetStatus(fmt.Sprintf("%s | %s", v.session.Device().Name, v.session.Format().Name()))
}

// Menu returns the menu for the active session.
func (v *Viewer) Menu() *menu.Menu { return v.menu }

func (v *Viewer) Session() capture.Session { return v.session }

// Select acts on a menu id: camera entries switch the device, format entries
// switch the format. Ids not in the current menu are logged and ignored.
func (v *Viewer) Select(ctx context.Context, id int) error {
	name, err := v.menu.Lookup(id)
	if errors.Is(err, menu.ErrUnknownID) {
		v.log.Warn("ignoring unknown menu id", "id", id)
		return nil
	}
	if err != nil {
		return err
	}
	v.log.Info("menu selected", "id", id, "name", name)

	if _, ok := v.device(name); ok {
		return v.SwitchCamera(ctx, name)
	}
	if _, ok := capture.FindFormat(v.session.Formats(), name); ok {
		return v.SetFormat(ctx, name)
	}
	v.log.Warn("menu entry matches no camera or format", "name", name)
	return nil
}

// SwitchCamera tears down the active session and starts the named camera.
func (v *Viewer) SwitchCamera(ctx context.Context, name string) error {
	dev, ok := v.device(name)
	if !ok {
		return fmt.Errorf("%w: %s", capture.ErrUnknownDevice, name)
	}
	if dev == v.session.Device() {
		return nil
	}
	return v.open(ctx, dev)
}

// SetFormat switches the active session to the named format.
func (v *Viewer) SetFormat(ctx context.Context, name string) error {
	f, ok := capture.FindFormat(v.session.Formats(), name)
	if !ok {
		return fmt.Errorf("%w: %s", capture.ErrUnknownFormat, name)
	}
	if err := v.session.SetFormat(ctx, f); err != nil {
		return err
	}
	v.log.Info("format changed", "format", name)
	v.updateStatus()
	return nil
}

func (v *Viewer) pollMenu(ctx context.Context) {
	if v.view == nil {
		return
	}
	select {
	case id := <-v.view.Selected():
		if err := v.Select(ctx, id); err != nil {
			v.log.Error("menu action failed", "id", id, "error", err)
		}
	default:
	}
}

// Step runs one iteration of the frame loop.
func (v *Viewer) Step(ctx context.Context, in display.Input) (display.Output, error) {
	out := display.Output{
		Pixels: v.pixels,
		Width:  v.frame.Rect.Dx(),
		Height: v.frame.Rect.Dy(),
	}
	if in.Quit {
		out.Done = true
		return out, nil
	}

	v.pollMenu(ctx)

	img, err := v.session.Capture(ctx)
	if err != nil {
		// cancellation is how Ctrl-C and quitting the menu end the loop
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			out.Done = true
			return out, nil
		}
		return out, fmt.Errorf("capture: %w", err)
	}
	decode.Scale(v.frame, img)
	decode.Fill(v.pixels, v.frame)

	if in.Snapshot {
		if path, err := v.snaps.Save(v.frame); err != nil {
			v.log.Error("snapshot failed", "error", err)
		} else {
			v.log.Info("captured", "path", path)
		}
	}

	out.Title = fmt.Sprintf("Camera (FPS=%.1f)", v.fps.Count())
	return out, nil
}

func (v *Viewer) Close() error {
	return v.session.Close()
}
