// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     audio
// Description: Capture format, recording takes and device descriptors
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package audio

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultSampleRate is the capture rate for recordings
	DefaultSampleRate = 44100

	// DefaultChannels is mono audio
	DefaultChannels = 1

	// DefaultSampleWidth is 16-bit signed little endian
	DefaultSampleWidth = 2

	// DefaultChunkFrames is the number of frames read per chunk
	DefaultChunkFrames = 1024
)

var (
	// ErrDevice marks failures opening, reading or writing an audio stream
	ErrDevice = errors.New("audio device error")

	// ErrFile marks failures reading or writing a container file
	ErrFile = errors.New("audio file error")

	// ErrNoAudio is returned when a take holds no chunks
	ErrNoAudio = errors.New("no audio captured")
)

// Format describes PCM sample layout
type Format struct {
	SampleRate  int
	Channels    int
	SampleWidth int // bytes per sample
}

// DefaultFormat returns the recording format: 44.1 kHz, mono, 16 bit
func DefaultFormat() Format {
	return Format{
		SampleRate:  DefaultSampleRate,
		Channels:    DefaultChannels,
		SampleWidth: DefaultSampleWidth,
	}
}

// FrameSize returns the number of bytes per frame
func (f Format) FrameSize() int {
	return f.Channels * f.SampleWidth
}

// BitDepth returns bits per sample
func (f Format) BitDepth() int {
	return f.SampleWidth * 8
}

// BytesPerSecond returns the data rate of the format
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.FrameSize()
}

// Validate checks that the format can be captured and written
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.SampleWidth != 2 {
		return fmt.Errorf("unsupported sample width: %d bytes", f.SampleWidth)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d bit", f.SampleRate, f.Channels, f.BitDepth())
}

// Take is an in-memory recording. Chunks are only ever appended.
type Take struct {
	format Format
	chunks [][]byte
	size   int
}

// NewTake creates an empty take for the given format
func NewTake(f Format) *Take {
	return &Take{format: f}
}

// Format returns the capture format of the take
func (t *Take) Format() Format {
	return t.format
}

// Append stores a copy of chunk at the end of the take
func (t *Take) Append(chunk []byte) {
	c := make([]byte, len(chunk))
	copy(c, chunk)
	t.chunks = append(t.chunks, c)
	t.size += len(c)
}

// Len returns the number of chunks
func (t *Take) Len() int {
	return len(t.chunks)
}

// Size returns the payload size in bytes
func (t *Take) Size() int {
	return t.size
}

// Chunks returns the captured chunks in capture order
func (t *Take) Chunks() [][]byte {
	return t.chunks
}

// Bytes returns the concatenation of all chunks in capture order
func (t *Take) Bytes() []byte {
	out := make([]byte, 0, t.size)
	for _, c := range t.chunks {
		out = append(out, c...)
	}
	return out
}

// Duration returns the playing time of the captured audio
func (t *Take) Duration() time.Duration {
	bps := t.format.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(t.size) * time.Second / time.Duration(bps)
}

// DeviceInfo holds information about an audio input device
type DeviceInfo struct {
	ID                int // index within the default host API
	Name              string
	InputChannels     int
	DefaultSampleRate float64
	IsDefault         bool
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%d: %s", d.ID, d.Name)
}

// FilterInputDevices keeps only devices with at least one input channel
func FilterInputDevices(all []DeviceInfo) []DeviceInfo {
	var out []DeviceInfo
	for _, d := range all {
		if d.InputChannels > 0 {
			out = append(out, d)
		}
	}
	return out
}
