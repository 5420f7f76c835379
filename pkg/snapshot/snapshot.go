// Package snapshot saves numbered still images of captured frames.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/kevmo314/camview/pkg/decode"
)

const DefaultPrefix = "frame"

// Writer saves frames as <Dir>/<Prefix><n>.bmp, counting from 0.
type Writer struct {
	Dir    string
	Prefix string

	next int
}

func NewWriter(dir, prefix string) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Writer{Dir: dir, Prefix: prefix}
}

// Save writes img and returns the path it was written to. The counter only
// advances when the file was written successfully.
func (w *Writer) Save(img image.Image) (string, error) {
	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	path := filepath.Join(w.Dir, fmt.Sprintf("%s%d.bmp", w.Prefix, w.next))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := decode.EncodeBMP(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	w.next++
	return path, nil
}

// Count returns the number of snapshots saved so far.
func (w *Writer) Count() int {
	return w.next
}
