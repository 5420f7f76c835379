package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
	"golang.org/x/sys/unix"

	"github.com/kevmo314/camview/pkg/decode"
)

// preferred pixel formats, in menu order
var v4l2PixelFormats = []v4l2.FourCCType{v4l2.PixelFmtMJPEG, v4l2.PixelFmtYUYV, v4l2.PixelFmtRGB24}

// V4L2Source captures from Video4Linux2 devices.
type V4L2Source struct {
	Logger *slog.Logger
}

func newSystemSource() (Source, error) {
	return &V4L2Source{Logger: slog.Default()}, nil
}

func (s *V4L2Source) Devices(ctx context.Context) ([]Device, error) {
	paths, err := device.GetAllDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list v4l2 devices: %w", err)
	}
	sort.Strings(paths)

	var devices []Device
	seen := make(map[string]bool)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
			s.Logger.Debug("skipping inaccessible device", "path", path, "error", err)
			continue
		}
		dev, err := device.Open(path)
		if err != nil {
			s.Logger.Debug("skipping device", "path", path, "error", err)
			continue
		}
		caps := dev.Capability()
		dev.Close()
		if !caps.IsVideoCaptureSupported() {
			continue
		}
		name := caps.Card
		if name == "" || seen[name] {
			name = fmt.Sprintf("%s (%s)", caps.Card, path)
		}
		seen[name] = true
		devices = append(devices, Device{ID: path, Name: name})
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}
	return devices, nil
}

func (s *V4L2Source) Open(ctx context.Context, d Device) (Session, error) {
	dev, err := device.Open(d.ID)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.ID, err)
	}
	formats, err := listFormats(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	dev.Close()
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: %s offers no decodable formats", ErrUnknownFormat, d.Name)
	}

	sess := &v4l2Session{device: d, formats: formats, logger: s.Logger.With("device", d.ID)}
	if err := sess.SetFormat(ctx, formats[0]); err != nil {
		return nil, err
	}
	return sess, nil
}

func listFormats(dev *device.Device) ([]Format, error) {
	descs, err := v4l2.GetAllFormatDescriptions(dev.Fd())
	if err != nil {
		return nil, fmt.Errorf("get format descriptions: %w", err)
	}
	fps, err := dev.GetFrameRate()
	if err != nil || fps == 0 {
		fps = 30
	}

	offered := make(map[v4l2.FourCCType]bool)
	for _, desc := range descs {
		offered[desc.PixelFormat] = true
	}

	var formats []Format
	for _, pf := range v4l2PixelFormats {
		if !offered[pf] {
			continue
		}
		sizes, err := v4l2.GetFormatFrameSizes(dev.Fd(), pf)
		if err != nil {
			continue
		}
		for _, size := range sizes {
			f := Format{
				PixelFormat: fourccString(pf),
				Width:       int(size.Size.MinWidth),
				Height:      int(size.Size.MinHeight),
				FPS:         float64(fps),
			}
			if !hasFormat(formats, f) {
				formats = append(formats, f)
			}
			if size.Size.MaxWidth > size.Size.MinWidth {
				f.Width, f.Height = int(size.Size.MaxWidth), int(size.Size.MaxHeight)
				if !hasFormat(formats, f) {
					formats = append(formats, f)
				}
			}
		}
	}
	return formats, nil
}

func fourccString(cc v4l2.FourCCType) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(cc))
	return string(b[:])
}

func fourccType(s string) v4l2.FourCCType {
	var b [4]byte
	copy(b[:], s)
	return v4l2.FourCCType(binary.LittleEndian.Uint32(b[:]))
}

type v4l2Session struct {
	device  Device
	formats []Format
	format  Format
	logger  *slog.Logger

	dev    *device.Device
	cancel context.CancelFunc
	dec    decode.VideoDecoder
	closed bool
}

func (s *v4l2Session) Device() Device { return s.device }

func (s *v4l2Session) Formats() []Format { return append([]Format(nil), s.formats...) }

func (s *v4l2Session) Format() Format { return s.format }

// SetFormat restarts the stream with f. The driver cannot renegotiate while
// streaming, so the device is closed and reopened. If f cannot be started
// the previous format is restored.
func (s *v4l2Session) SetFormat(ctx context.Context, f Format) error {
	if s.closed {
		return ErrClosed
	}
	if !hasFormat(s.formats, f) {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f.Name())
	}
	if _, err := decode.NewDecoder(f.FourCC(), f.Width, f.Height); err != nil {
		return err
	}

	prev, running := s.format, s.dev != nil
	s.stop()
	err := s.start(f)
	if err == nil {
		return nil
	}
	if running {
		if rerr := s.start(prev); rerr != nil {
			s.logger.Error("restore previous format", "format", prev.Name(), "error", rerr)
		} else {
			s.logger.Warn("kept previous format", "format", prev.Name(), "error", err)
		}
	}
	return err
}

// start opens the device streaming f. s.dev stays nil on error.
func (s *v4l2Session) start(f Format) error {
	dev, err := device.Open(s.device.ID,
		device.WithPixFormat(v4l2.PixFormat{
			Width:       uint32(f.Width),
			Height:      uint32(f.Height),
			PixelFormat: fourccType(f.PixelFormat),
			Field:       v4l2.FieldNone,
		}),
		device.WithFPS(uint32(f.FPS)),
	)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.device.ID, err)
	}

	// drivers may round the requested size
	width, height := f.Width, f.Height
	if pix, err := dev.GetPixFormat(); err == nil && (int(pix.Width) != width || int(pix.Height) != height) {
		s.logger.Warn("driver adjusted frame size", "requested", f.Name(), "width", pix.Width, "height", pix.Height)
		width, height = int(pix.Width), int(pix.Height)
	}
	dec, err := decode.NewDecoder(f.FourCC(), width, height)
	if err != nil {
		dev.Close()
		return err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(streamCtx); err != nil {
		cancel()
		dev.Close()
		return fmt.Errorf("start stream: %w", err)
	}

	s.dev, s.cancel, s.dec, s.format = dev, cancel, dec, f
	s.logger.Info("stream started", "format", f.Name(), "buffers", dev.BufferCount())
	return nil
}

func (s *v4l2Session) Capture(ctx context.Context) (image.Image, error) {
	if s.closed || s.dev == nil {
		return nil, ErrClosed
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case frame, ok := <-s.dev.GetOutput():
			if !ok {
				return nil, ErrClosed
			}
			if len(frame) == 0 {
				continue
			}
			img, err := decode.Decode(s.dec, frame)
			if err != nil {
				// corrupt MJPEG frames are common right after stream start
				s.logger.Debug("dropping frame", "error", err, "bytes", len(frame))
				continue
			}
			return img, nil
		}
	}
}

func (s *v4l2Session) stop() {
	if s.dev == nil {
		return
	}
	s.cancel()
	if err := s.dev.Stop(); err != nil {
		s.logger.Debug("stop stream", "error", err)
	}
	if err := s.dev.Close(); err != nil {
		s.logger.Debug("close device", "error", err)
	}
	s.dev = nil
}

func (s *v4l2Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	return nil
}
