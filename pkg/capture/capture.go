// Package capture enumerates video capture devices and streams decoded
// frames from them.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
)

var (
	ErrNoDevices      = errors.New("no capture devices found")
	ErrUnknownDevice  = errors.New("unknown capture device")
	ErrUnknownFormat  = errors.New("format not offered by device")
	ErrClosed         = errors.New("capture session closed")
	ErrUnsupported    = errors.New("capture source not supported on this platform")
	ErrUnknownBackend = errors.New("unknown capture source")
)

type Device struct {
	// ID is stable for the lifetime of the device, e.g. its device node.
	ID   string
	Name string
}

type Format struct {
	// PixelFormat is the FourCC of the frames the device delivers.
	PixelFormat string
	Width       int
	Height      int
	FPS         float64
}

// Name renders the format the way it is listed in menus.
func (f Format) Name() string {
	return fmt.Sprintf("Video-%s: %dx%d@%gfps", f.PixelFormat, f.Width, f.Height, f.FPS)
}

func (f Format) FourCC() [4]byte {
	var cc [4]byte
	copy(cc[:], f.PixelFormat)
	return cc
}

type Source interface {
	Devices(ctx context.Context) ([]Device, error)
	Open(ctx context.Context, dev Device) (Session, error)
}

// Session is an open capture device. Sessions are not safe for concurrent
// use.
type Session interface {
	Device() Device
	Formats() []Format
	Format() Format
	// SetFormat switches the stream to f, which must be one of Formats.
	SetFormat(ctx context.Context, f Format) error
	// Capture blocks until the next frame is decoded.
	Capture(ctx context.Context) (image.Image, error)
	Close() error
}

// NewSource returns the named capture backend: "v4l2" or "pattern".
func NewSource(kind string) (Source, error) {
	switch kind {
	case "v4l2":
		return newSystemSource()
	case "pattern":
		return NewPatternSource(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}

// FindFormat returns the format of formats whose Name is name.
func FindFormat(formats []Format, name string) (Format, bool) {
	for _, f := range formats {
		if f.Name() == name {
			return f, true
		}
	}
	return Format{}, false
}

func hasFormat(formats []Format, f Format) bool {
	for _, g := range formats {
		if g == f {
			return true
		}
	}
	return false
}
