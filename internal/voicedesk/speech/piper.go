// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     speech
// Description: Piper TTS engine played through the audio output
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
)

// DefaultPiperSampleRate is the output rate of most piper models
const DefaultPiperSampleRate = 22050

// PCMPlayer plays raw 16-bit PCM
type PCMPlayer interface {
	PlayPCM(ctx context.Context, pcm []byte, f audio.Format) error
}

// Piper implements text-to-speech using the piper binary. Piper writes raw
// PCM which is played through the audio output.
type Piper struct {
	binaryPath string
	modelPath  string
	voicesDir  string
	sampleRate int
	player     PCMPlayer
	run        runner
}

// NewPiper creates a piper engine
func NewPiper(cfg Config, player PCMPlayer) *Piper {
	rate := cfg.PiperSampleRate
	if rate <= 0 {
		rate = DefaultPiperSampleRate
	}
	return &Piper{
		binaryPath: cfg.PiperBinary,
		modelPath:  cfg.PiperModel,
		voicesDir:  cfg.PiperVoicesDir,
		sampleRate: rate,
		player:     player,
		run:        execRunner,
	}
}

// Name returns "piper"
func (p *Piper) Name() string {
	return "piper"
}

// Available checks that the binary and a model exist
func (p *Piper) Available() bool {
	if p.binaryPath == "" || p.player == nil {
		return false
	}
	if _, err := os.Stat(p.binaryPath); err != nil {
		return false
	}
	if p.modelPath != "" {
		if _, err := os.Stat(p.modelPath); err == nil {
			return true
		}
	}
	voices, _ := p.Voices(context.Background())
	return len(voices) > 0
}

// Voices returns the .onnx models in the voices directory
func (p *Piper) Voices(ctx context.Context) ([]Voice, error) {
	if p.voicesDir == "" {
		if p.modelPath == "" {
			return nil, nil
		}
		return []Voice{modelVoice(p.modelPath)}, nil
	}

	entries, err := os.ReadDir(p.voicesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read voices directory: %w", err)
	}

	var voices []Voice
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".onnx") {
			continue
		}
		voices = append(voices, modelVoice(filepath.Join(p.voicesDir, entry.Name())))
	}
	return voices, nil
}

// modelVoice derives a voice from a model path like de_DE-thorsten-high.onnx
func modelVoice(path string) Voice {
	name := strings.TrimSuffix(filepath.Base(path), ".onnx")
	lang, _, _ := strings.Cut(name, "-")
	return Voice{ID: path, Name: name, Language: lang}
}

// lengthScale maps words per minute to piper's length scale (1.0 at 150 wpm)
func lengthScale(rate int) float64 {
	if rate <= 0 {
		return 1.0
	}
	return float64(DefaultRate) / float64(rate)
}

// Say synthesizes raw PCM and plays it
func (p *Piper) Say(ctx context.Context, text string, voice Voice, rate int) error {
	model := p.modelPath
	if !voice.IsDefault() {
		model = voice.ID
	}
	if model == "" {
		return fmt.Errorf("piper: no model configured")
	}

	args := []string{
		"--model", model,
		"--output_raw",
		"--length_scale", strconv.FormatFloat(lengthScale(rate), 'f', 2, 64),
	}

	// Config file should be next to model
	if _, err := os.Stat(model + ".json"); err == nil {
		args = append(args, "--config", model+".json")
	}

	// Find espeak-ng-data directory (relative to binary)
	espeakData := filepath.Join(filepath.Dir(p.binaryPath), "espeak-ng-data")
	if _, err := os.Stat(espeakData); err == nil {
		args = append(args, "--espeak_data", espeakData)
	}

	pcm, err := p.run(ctx, command{
		Name:  p.binaryPath,
		Args:  args,
		Stdin: strings.NewReader(text),
		// Set working directory to piper directory for library paths
		Dir: filepath.Dir(p.binaryPath),
		Env: append(os.Environ(),
			fmt.Sprintf("DYLD_LIBRARY_PATH=%s", filepath.Dir(p.binaryPath)),
		),
	})
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return fmt.Errorf("piper produced no audio")
	}

	return p.player.PlayPCM(ctx, pcm, audio.Format{
		SampleRate:  p.sampleRate,
		Channels:    1,
		SampleWidth: 2,
	})
}
