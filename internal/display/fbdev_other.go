//go:build !linux

package display

import "errors"

// OpenFBDev is only available on Linux.
func OpenFBDev(path string) (Device, error) {
	return nil, errors.New("fbdev backend requires linux")
}
