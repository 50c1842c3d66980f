package audio

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavAudioFormatPCM is the WAVE format tag for uncompressed PCM
const wavAudioFormatPCM = 1

// WriteWAV serializes a take to path as an uncompressed PCM WAV file.
// The data is written to a temporary file next to path and renamed over
// it, so a failed write leaves any existing file untouched.
func WriteWAV(path string, take *Take) error {
	if take == nil || take.Len() == 0 {
		return ErrNoAudio
	}
	f := take.Format()
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rec-*.wav.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrFile, path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod %s: %w", ErrFile, path, err)
	}

	enc := wav.NewEncoder(tmp, f.SampleRate, f.BitDepth(), f.Channels, wavAudioFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: f.Channels,
			SampleRate:  f.SampleRate,
		},
		SourceBitDepth: f.BitDepth(),
	}
	for _, chunk := range take.Chunks() {
		buf.Data = pcm16ToInts(chunk, buf.Data[:0])
		if err := enc.Write(buf); err != nil {
			cleanup()
			return fmt.Errorf("%w: write %s: %w", ErrFile, path, err)
		}
	}
	if err := enc.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: finalize %s: %w", ErrFile, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %w", ErrFile, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %w", ErrFile, path, err)
	}
	return nil
}

// ReadWAV decodes a 16-bit PCM WAV file completely
func ReadWAV(path string) (Format, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return Format{}, nil, fmt.Errorf("%w: open %s: %w", ErrFile, path, err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return Format{}, nil, fmt.Errorf("%w: %s is not a valid WAV file", ErrFile, path)
	}
	if dec.BitDepth != 16 {
		return Format{}, nil, fmt.Errorf("%w: %s: unsupported bit depth %d", ErrFile, path, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Format{}, nil, fmt.Errorf("%w: decode %s: %w", ErrFile, path, err)
	}

	f := Format{
		SampleRate:  int(dec.SampleRate),
		Channels:    int(dec.NumChans),
		SampleWidth: int(dec.BitDepth) / 8,
	}
	return f, intsToPCM16(buf.Data), nil
}

// pcm16ToInts appends the samples of a 16-bit little endian chunk to dst
func pcm16ToInts(chunk []byte, dst []int) []int {
	for i := 0; i+1 < len(chunk); i += 2 {
		dst = append(dst, int(int16(binary.LittleEndian.Uint16(chunk[i:]))))
	}
	return dst
}

// intsToPCM16 packs samples as 16-bit little endian
func intsToPCM16(samples []int) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}

// pcm16ToFloat32 converts 16-bit little endian samples to [-1, 1)
func pcm16ToFloat32(chunk []byte) []float32 {
	out := make([]float32, len(chunk)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(chunk[2*i:]))) / 32768.0
	}
	return out
}

// intsToFloat32 normalizes decoded samples of the given bit depth
func intsToFloat32(samples []int, bitDepth int, dst []float32) []float32 {
	dst = dst[:0]
	if bitDepth == 8 {
		// 8-bit WAV samples are unsigned
		for _, s := range samples {
			dst = append(dst, float32(s-128)/128.0)
		}
		return dst
	}
	scale := float32(int64(1) << (bitDepth - 1))
	for _, s := range samples {
		dst = append(dst, float32(s)/scale)
	}
	return dst
}
