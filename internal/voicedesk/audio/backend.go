package audio

import "fmt"

// ErrNoBackend is returned by loops that were created without a backend
var ErrNoBackend = fmt.Errorf("%w: no audio backend", ErrDevice)

// Backend provides access to the host audio devices
type Backend interface {
	// InputDevices lists the devices of the default host API that can record
	InputDevices() ([]DeviceInfo, error)

	// DefaultDevices returns the names of the default input and output devices
	DefaultDevices() (input, output string, err error)

	// OpenInput opens a started capture stream. deviceID < 0 selects the
	// default input device.
	OpenInput(deviceID int, f Format, frames int) (Source, error)

	// OpenOutput opens a started playback stream on the default output device
	OpenOutput(f Format, frames int) (Sink, error)

	// Close releases the backend
	Close() error
}

// Source is an open capture stream
type Source interface {
	// Read blocks until one chunk of 16-bit little endian PCM is available
	// and returns a copy of it.
	Read() ([]byte, error)

	// Close stops and closes the stream. Further calls are no-ops.
	Close() error
}

// Sink is an open playback stream
type Sink interface {
	// Write plays one chunk of interleaved samples. A short chunk is padded
	// with silence.
	Write(samples []float32) error

	// Close drains, stops and closes the stream. Further calls are no-ops.
	Close() error
}
