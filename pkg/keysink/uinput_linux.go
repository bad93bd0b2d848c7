//go:build linux
// +build linux

package keysink

import (
	"fmt"

	"github.com/bendahl/uinput"
	"github.com/golang/glog"
)

// OpenUInput creates a virtual keyboard emitting the codes in keys.
func OpenUInput(path, name string, keys KeyMap) (*UInput, error) {
	kb, err := uinput.CreateKeyboard(path, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("uinput %s: %w", path, err)
	}
	glog.Infof("uinput device %q created on %s", name, path)
	return &UInput{Keys: keys, kb: kb, name: name}, nil
}
