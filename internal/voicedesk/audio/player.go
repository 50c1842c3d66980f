package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/msto63/voicedesk/pkg/core/logging"
)

// Player streams WAV files and raw PCM to the default output device
type Player struct {
	backend Backend
	frames  int
	logger  *logging.Logger
}

// NewPlayer creates a player writing chunks of frames frames
func NewPlayer(backend Backend, frames int, logger *logging.Logger) *Player {
	if frames <= 0 {
		frames = DefaultChunkFrames
	}
	if logger == nil {
		logger = logging.Discard("PLAY")
	}
	return &Player{backend: backend, frames: frames, logger: logger}
}

// Play reads the format from the file header, opens a matching output stream
// and writes chunks until the end of the file. Cancelling ctx stops between
// chunks.
func (p *Player) Play(ctx context.Context, path string) error {
	if p.backend == nil {
		return ErrNoBackend
	}
	file, err := os.Open(path)
	if err != nil {
		p.logger.Error("Failed to open recording", "path", path, "error", err)
		return fmt.Errorf("%w: open %s: %w", ErrFile, path, err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		p.logger.Error("Invalid WAV file", "path", path)
		return fmt.Errorf("%w: %s is not a valid WAV file", ErrFile, path)
	}

	f := Format{
		SampleRate:  int(dec.SampleRate),
		Channels:    int(dec.NumChans),
		SampleWidth: int(dec.BitDepth) / 8,
	}
	bitDepth := int(dec.BitDepth)

	sink, err := p.backend.OpenOutput(f, p.frames)
	if err != nil {
		p.logger.Error("Failed to open output stream", "path", path, "error", err)
		return deviceError(err)
	}
	defer sink.Close()

	p.logger.Info("Playback started", "path", path, "format", f.String())

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:   make([]int, p.frames*f.Channels),
	}
	samples := make([]float32, 0, len(buf.Data))
	for ctx.Err() == nil {
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			p.logger.Error("Failed to decode recording", "path", path, "error", err)
			return fmt.Errorf("%w: decode %s: %w", ErrFile, path, err)
		}
		if n == 0 {
			break
		}
		samples = intsToFloat32(buf.Data[:n], bitDepth, samples)
		if err := sink.Write(samples); err != nil {
			p.logger.Error("Failed to write output stream", "path", path, "error", err)
			return deviceError(err)
		}
	}

	if err := sink.Close(); err != nil {
		return deviceError(err)
	}
	p.logger.Info("Playback finished", "path", path)
	return nil
}

// PlayPCM plays a buffer of 16-bit little endian samples
func (p *Player) PlayPCM(ctx context.Context, pcm []byte, f Format) error {
	if p.backend == nil {
		return ErrNoBackend
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	sink, err := p.backend.OpenOutput(f, p.frames)
	if err != nil {
		p.logger.Error("Failed to open output stream", "error", err)
		return deviceError(err)
	}
	defer sink.Close()

	step := p.frames * f.FrameSize()
	for pos := 0; pos < len(pcm) && ctx.Err() == nil; pos += step {
		end := min(pos+step, len(pcm))
		if err := sink.Write(pcm16ToFloat32(pcm[pos:end])); err != nil {
			p.logger.Error("Failed to write output stream", "error", err)
			return deviceError(err)
		}
	}

	return deviceError(sink.Close())
}
