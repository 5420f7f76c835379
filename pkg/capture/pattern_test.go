package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/uuid"
)

func openPattern(t *testing.T, names ...string) (*PatternSource, Session) {
	t.Helper()
	ctx := context.Background()
	src := NewPatternSource(names...)
	devices, err := src.Devices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := src.Open(ctx, devices[0])
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return src, sess
}

func TestPatternDevices(t *testing.T) {
	src := NewPatternSource("Front", "Back")
	devices, err := src.Devices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2", len(devices))
	}
	again, _ := src.Devices(context.Background())
	for i, d := range devices {
		if _, err := uuid.Parse(d.ID); err != nil {
			t.Errorf("device %d ID %q is not a UUID: %v", i, d.ID, err)
		}
		if again[i].ID != d.ID {
			t.Errorf("device %d ID changed between calls: %s != %s", i, again[i].ID, d.ID)
		}
	}
	if devices[0].ID == devices[1].ID {
		t.Errorf("devices share ID %s", devices[0].ID)
	}
}

func TestPatternOpenUnknownDevice(t *testing.T) {
	src := NewPatternSource()
	_, err := src.Open(context.Background(), Device{ID: "nope", Name: "nope"})
	if !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("Open error = %v, want ErrUnknownDevice", err)
	}
}

func TestPatternCaptureEveryFormat(t *testing.T) {
	_, sess := openPattern(t)
	ctx := context.Background()

	for _, f := range sess.Formats() {
		if err := sess.SetFormat(ctx, f); err != nil {
			t.Fatalf("SetFormat(%s) failed: %v", f.Name(), err)
		}
		if sess.Format() != f {
			t.Errorf("Format() = %s, want %s", sess.Format().Name(), f.Name())
		}
		img, err := sess.Capture(ctx)
		if err != nil {
			t.Fatalf("Capture(%s) failed: %v", f.Name(), err)
		}
		if want := image.Rect(0, 0, f.Width, f.Height); img.Bounds() != want {
			t.Errorf("Capture(%s) bounds = %v, want %v", f.Name(), img.Bounds(), want)
		}
	}
}

func TestPatternFirstBarIsWhite(t *testing.T) {
	_, sess := openPattern(t)
	img, err := sess.Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("At(0, 0) = %v, want white", got)
	}
}

func TestPatternSetUnknownFormat(t *testing.T) {
	_, sess := openPattern(t)
	err := sess.SetFormat(context.Background(), Format{PixelFormat: "H264", Width: 1, Height: 1, FPS: 1})
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("SetFormat error = %v, want ErrUnknownFormat", err)
	}
}

func TestPatternClosed(t *testing.T) {
	_, sess := openPattern(t)
	sess.Close()
	if _, err := sess.Capture(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Capture after Close error = %v, want ErrClosed", err)
	}
}

func TestPatternCaptureCancelled(t *testing.T) {
	_, sess := openPattern(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sess.Capture(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Capture error = %v, want context.Canceled", err)
	}
}

func TestFormatName(t *testing.T) {
	f := Format{PixelFormat: "MJPG", Width: 1280, Height: 720, FPS: 30}
	if got, want := f.Name(), "Video-MJPG: 1280x720@30fps"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	f.FPS = 7.5
	if got, want := f.Name(), "Video-MJPG: 1280x720@7.5fps"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if got, ok := FindFormat([]Format{f}, f.Name()); !ok || got != f {
		t.Errorf("FindFormat = %v, %t, want %v, true", got, ok, f)
	}
}

func TestNewSource(t *testing.T) {
	if _, err := NewSource("pattern"); err != nil {
		t.Errorf("NewSource(pattern) failed: %v", err)
	}
	if _, err := NewSource("dshow"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewSource(dshow) error = %v, want ErrUnknownBackend", err)
	}
}
