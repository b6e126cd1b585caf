package store

import (
	"errors"
	"io"

	"github.com/gloworm-vision/labaccess/hardware"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

// Store describes a persistent storage engine for labaccess settings.
type Store interface {
	HardwareConfig() (hardware.Config, error)
	PutHardwareConfig(h hardware.Config) error

	// Title is the lab name drawn in the display header.
	Title() (string, error)
	PutTitle(title string) error

	io.Closer
}
