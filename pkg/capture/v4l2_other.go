//go:build !linux

package capture

func newSystemSource() (Source, error) {
	return nil, ErrUnsupported
}
