//go:build !tinygo && !linux

package hal

import "errors"

func newPeriphDevice(_ PeriphPins) (GPIO, Radio, error) {
	return nil, nil, errors.New("periph gpio is only available on linux")
}
