//go:build !linux
// +build !linux

package keysink

// OpenUInput is not supported on this platform.
func OpenUInput(path, name string, keys KeyMap) (*UInput, error) {
	return nil, ErrUnsupported
}
