// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     audio
// Description: Recording loop with level metering and silence detection
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msto63/voicedesk/pkg/core/logging"
)

// RecorderConfig holds the capture parameters of a Recorder
type RecorderConfig struct {
	Format           Format
	ChunkFrames      int
	LevelGain        float64
	SilenceThreshold int
	SilenceChunks    int
}

// DefaultRecorderConfig returns the default capture parameters
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Format:           DefaultFormat(),
		ChunkFrames:      DefaultChunkFrames,
		LevelGain:        DefaultLevelGain,
		SilenceThreshold: 5,
		SilenceChunks:    50,
	}
}

// RecordRequest selects the device and the destination file
type RecordRequest struct {
	DeviceID int // < 0 selects the default input device
	Path     string
}

// RecorderCallbacks receive progress from the recording loop. They run on
// the recording goroutine and must not block.
type RecorderCallbacks struct {
	OnLevel   func(level int)
	OnNoAudio func()
}

// ProbeOptions configures a microphone test
type ProbeOptions struct {
	Reads    int
	Interval time.Duration
}

// DefaultProbeOptions returns 50 reads at 100ms intervals
func DefaultProbeOptions() ProbeOptions {
	return ProbeOptions{Reads: 50, Interval: 100 * time.Millisecond}
}

// Recorder captures audio from an input device into WAV files
type Recorder struct {
	backend Backend
	cfg     RecorderConfig
	logger  *logging.Logger
}

// NewRecorder creates a recorder
func NewRecorder(backend Backend, cfg RecorderConfig, logger *logging.Logger) *Recorder {
	if cfg.ChunkFrames <= 0 {
		cfg.ChunkFrames = DefaultChunkFrames
	}
	if cfg.LevelGain <= 0 {
		cfg.LevelGain = DefaultLevelGain
	}
	if logger == nil {
		logger = logging.Discard("RECD")
	}
	return &Recorder{backend: backend, cfg: cfg, logger: logger}
}

// Format returns the capture format
func (r *Recorder) Format() Format {
	return r.cfg.Format
}

// Record captures chunks until ctx is cancelled, then closes the stream and
// writes the take to req.Path. A read error ends the loop early; the chunks
// captured so far are still written and the read error is returned with the
// take.
func (r *Recorder) Record(ctx context.Context, req RecordRequest, cb RecorderCallbacks) (*Take, error) {
	if r.backend == nil {
		return nil, ErrNoBackend
	}
	if err := r.cfg.Format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDevice, err)
	}

	src, err := r.backend.OpenInput(req.DeviceID, r.cfg.Format, r.cfg.ChunkFrames)
	if err != nil {
		r.logger.Error("Failed to open input stream", "device", req.DeviceID, "error", err)
		return nil, deviceError(err)
	}
	r.logger.Info("Recording started", "device", req.DeviceID, "format", r.cfg.Format.String())

	take := NewTake(r.cfg.Format)
	silence := NewSilenceDetector(r.cfg.SilenceThreshold, r.cfg.SilenceChunks)

	var readErr error
	for ctx.Err() == nil {
		chunk, err := src.Read()
		if err != nil {
			readErr = deviceError(err)
			r.logger.Error("Failed to read input stream", "chunks", take.Len(), "error", err)
			break
		}
		take.Append(chunk)

		level := Loudness(chunk, r.cfg.LevelGain)
		if cb.OnLevel != nil {
			cb.OnLevel(level)
		}
		if silence.Observe(level) {
			r.logger.Warn("No audio detected", "chunks", take.Len())
			if cb.OnNoAudio != nil {
				cb.OnNoAudio()
			}
		}
	}

	if err := src.Close(); err != nil {
		r.logger.Warn("Failed to close input stream", "error", err)
	}

	if take.Len() == 0 {
		r.logger.Warn("Recording stopped without audio", "path", req.Path)
		return take, errors.Join(ErrNoAudio, readErr)
	}

	if err := WriteWAV(req.Path, take); err != nil {
		r.logger.Error("Failed to write recording", "path", req.Path, "error", err)
		return take, errors.Join(err, readErr)
	}

	r.logger.Info("Recording saved",
		"path", req.Path,
		"chunks", take.Len(),
		"duration", take.Duration().Round(10*time.Millisecond).String(),
	)
	return take, readErr
}

// Probe runs a microphone test: it reads opts.Reads chunks with opts.Interval
// pauses, reports each level and keeps nothing.
func (r *Recorder) Probe(ctx context.Context, deviceID int, opts ProbeOptions, onLevel func(level int)) error {
	if r.backend == nil {
		return ErrNoBackend
	}
	if opts.Reads <= 0 {
		opts = DefaultProbeOptions()
	}

	src, err := r.backend.OpenInput(deviceID, r.cfg.Format, r.cfg.ChunkFrames)
	if err != nil {
		r.logger.Error("Failed to open input stream for microphone test", "device", deviceID, "error", err)
		return deviceError(err)
	}
	defer src.Close()

	r.logger.Info("Microphone test started", "device", deviceID, "reads", opts.Reads)

	var timer *time.Timer
	for i := 0; i < opts.Reads; i++ {
		if ctx.Err() != nil {
			break
		}
		chunk, err := src.Read()
		if err != nil {
			r.logger.Error("Microphone test failed", "read", i, "error", err)
			return deviceError(err)
		}
		if onLevel != nil {
			onLevel(Loudness(chunk, r.cfg.LevelGain))
		}

		if opts.Interval > 0 && i < opts.Reads-1 {
			if timer == nil {
				timer = time.NewTimer(opts.Interval)
				defer timer.Stop()
			} else {
				timer.Reset(opts.Interval)
			}
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		}
	}

	r.logger.Info("Microphone test finished", "device", deviceID)
	return nil
}

// deviceError makes sure err is classified as ErrDevice
func deviceError(err error) error {
	if err == nil || errors.Is(err, ErrDevice) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDevice, err)
}
