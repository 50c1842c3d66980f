// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     audio
// Description: Audio device access using PortAudio
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package audio

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudio is a Backend on top of the PortAudio library using blocking streams
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudio initializes PortAudio
func NewPortAudio() (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize PortAudio: %w", ErrDevice, err)
	}
	return &PortAudio{initialized: true}, nil
}

// InputDevices returns the input devices of the default host API. The ID of
// a device is its index within the host API device list.
func (p *PortAudio) InputDevices() ([]DeviceInfo, error) {
	api, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get host API: %w", ErrDevice, err)
	}

	var all []DeviceInfo
	for i, dev := range api.Devices {
		all = append(all, DeviceInfo{
			ID:                i,
			Name:              dev.Name,
			InputChannels:     dev.MaxInputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			IsDefault:         api.DefaultInputDevice != nil && dev.Name == api.DefaultInputDevice.Name,
		})
	}
	return FilterInputDevices(all), nil
}

// DefaultDevices returns the names of the default input and output devices
func (p *PortAudio) DefaultDevices() (string, string, error) {
	api, err := portaudio.DefaultHostApi()
	if err != nil {
		return "", "", fmt.Errorf("%w: failed to get host API: %w", ErrDevice, err)
	}
	var in, out string
	if api.DefaultInputDevice != nil {
		in = api.DefaultInputDevice.Name
	}
	if api.DefaultOutputDevice != nil {
		out = api.DefaultOutputDevice.Name
	}
	return in, out, nil
}

// inputDevice looks up a device by host API index
func (p *PortAudio) inputDevice(id int) (*portaudio.DeviceInfo, error) {
	api, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, err
	}
	if id >= len(api.Devices) {
		return nil, fmt.Errorf("device not found: %d", id)
	}
	dev := api.Devices[id]
	if dev.MaxInputChannels < 1 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", id, dev.Name)
	}
	return dev, nil
}

// OpenInput opens and starts a capture stream
func (p *PortAudio) OpenInput(deviceID int, f Format, frames int) (Source, error) {
	buffer := make([]int16, frames*f.Channels)

	var stream *portaudio.Stream
	var err error
	if deviceID < 0 {
		stream, err = portaudio.OpenDefaultStream(
			f.Channels, // input channels
			0,          // output channels (none)
			float64(f.SampleRate),
			frames,
			buffer,
		)
	} else {
		dev, findErr := p.inputDevice(deviceID)
		if findErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDevice, findErr)
		}
		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   dev,
				Channels: f.Channels,
				Latency:  dev.DefaultLowInputLatency,
			},
			SampleRate:      float64(f.SampleRate),
			FramesPerBuffer: frames,
		}
		stream, err = portaudio.OpenStream(params, buffer)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open input stream: %w", ErrDevice, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("%w: failed to start input stream: %w", ErrDevice, err)
	}

	return &paSource{stream: stream, buffer: buffer}, nil
}

// OpenOutput opens and starts a playback stream on the default output device
func (p *PortAudio) OpenOutput(f Format, frames int) (Sink, error) {
	buffer := make([]float32, frames*f.Channels)

	stream, err := portaudio.OpenDefaultStream(
		0,          // input channels (none)
		f.Channels, // output channels
		float64(f.SampleRate),
		frames,
		buffer,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open output stream: %w", ErrDevice, err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("%w: failed to start output stream: %w", ErrDevice, err)
	}

	return &paSink{stream: stream, buffer: buffer}, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

type paSource struct {
	stream    *portaudio.Stream
	buffer    []int16
	closeOnce sync.Once
	closeErr  error
}

func (s *paSource) Read() ([]byte, error) {
	// An overflow only means samples were dropped; the buffer is still valid.
	if err := s.stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return nil, fmt.Errorf("%w: failed to read input stream: %w", ErrDevice, err)
	}
	out := make([]byte, 2*len(s.buffer))
	for i, v := range s.buffer {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out, nil
}

func (s *paSource) Close() error {
	s.closeOnce.Do(func() {
		s.stream.Stop()
		if err := s.stream.Close(); err != nil {
			s.closeErr = fmt.Errorf("%w: failed to close input stream: %w", ErrDevice, err)
		}
	})
	return s.closeErr
}

type paSink struct {
	stream    *portaudio.Stream
	buffer    []float32
	closeOnce sync.Once
	closeErr  error
}

func (s *paSink) Write(samples []float32) error {
	n := copy(s.buffer, samples)
	for i := n; i < len(s.buffer); i++ {
		s.buffer[i] = 0
	}
	if err := s.stream.Write(); err != nil && err != portaudio.OutputUnderflowed {
		return fmt.Errorf("%w: failed to write to stream: %w", ErrDevice, err)
	}
	return nil
}

func (s *paSink) Close() error {
	s.closeOnce.Do(func() {
		s.stream.Stop()
		if err := s.stream.Close(); err != nil {
			s.closeErr = fmt.Errorf("%w: failed to close output stream: %w", ErrDevice, err)
		}
	})
	return s.closeErr
}
