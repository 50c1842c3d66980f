package audio

import (
	"errors"
	"sync"
)

// fakeBackend is an in-memory Backend for tests
type fakeBackend struct {
	mu sync.Mutex

	devices []DeviceInfo
	openErr error

	source *fakeSource
	sink   *fakeSink

	openedDevice int
	openedFormat Format
	openedFrames int
}

func (b *fakeBackend) InputDevices() ([]DeviceInfo, error) {
	return FilterInputDevices(b.devices), nil
}

func (b *fakeBackend) DefaultDevices() (string, string, error) {
	return "Built-in Microphone", "Built-in Output", nil
}

func (b *fakeBackend) OpenInput(deviceID int, f Format, frames int) (Source, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.openedDevice = deviceID
	b.openedFormat = f
	b.openedFrames = frames
	if b.source == nil {
		b.source = &fakeSource{}
	}
	return b.source, nil
}

func (b *fakeBackend) OpenOutput(f Format, frames int) (Sink, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.openedFormat = f
	b.openedFrames = frames
	if b.sink == nil {
		b.sink = &fakeSink{}
	}
	return b.sink, nil
}

func (b *fakeBackend) Close() error { return nil }

// fakeSource returns its chunks in order. onRead runs after each read with the
// number of chunks read so far.
type fakeSource struct {
	chunks  [][]byte
	readErr error
	onRead  func(n int)

	reads  int
	closed int
}

func (s *fakeSource) Read() ([]byte, error) {
	if s.reads >= len(s.chunks) {
		if s.readErr != nil {
			return nil, s.readErr
		}
		return nil, errors.New("source exhausted")
	}
	c := s.chunks[s.reads]
	s.reads++
	if s.onRead != nil {
		s.onRead(s.reads)
	}
	return c, nil
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type fakeSink struct {
	writes  [][]float32
	samples []float32
	closed  int
}

func (s *fakeSink) Write(samples []float32) error {
	c := make([]float32, len(samples))
	copy(c, samples)
	s.writes = append(s.writes, c)
	s.samples = append(s.samples, c...)
	return nil
}

func (s *fakeSink) Close() error {
	s.closed++
	return nil
}

// constChunk returns frames 16-bit samples of value v
func constChunk(v int16, frames int) []byte {
	out := make([]byte, 2*frames)
	for i := 0; i < frames; i++ {
		out[2*i] = byte(uint16(v))
		out[2*i+1] = byte(uint16(v) >> 8)
	}
	return out
}
