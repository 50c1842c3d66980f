// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     speech
// Description: macOS native TTS using 'say' command
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package speech

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// Say implements text-to-speech using the macOS say command
type Say struct {
	run      runner
	lookPath func(string) (string, error)
	goos     string
}

// NewSay creates a say engine
func NewSay() *Say {
	return &Say{
		run:      execRunner,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
}

// Name returns "say"
func (s *Say) Name() string {
	return "say"
}

// Available checks if macOS say is available
func (s *Say) Available() bool {
	if s.goos != "darwin" {
		return false
	}
	_, err := s.lookPath("say")
	return err == nil
}

// Voices runs 'say -v ?' and parses the voice list
func (s *Say) Voices(ctx context.Context) ([]Voice, error) {
	out, err := s.run(ctx, command{Name: "say", Args: []string{"-v", "?"}})
	if err != nil {
		return nil, err
	}
	return parseSayVoices(out), nil
}

// Say speaks the text directly
func (s *Say) Say(ctx context.Context, text string, voice Voice, rate int) error {
	args := []string{}

	if !voice.IsDefault() {
		args = append(args, "-v", voice.ID)
	}
	if rate > 0 {
		args = append(args, "-r", strconv.Itoa(rate))
	}

	// "--" keeps text starting with a dash from being read as an option
	args = append(args, "--", text)

	_, err := s.run(ctx, command{Name: "say", Args: args})
	return err
}

// sayVoiceLine matches "Anna    de_DE    # Hallo, ich heiße Anna."
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9_]+)\s+#`)

func parseSayVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		m := sayVoiceLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, Voice{ID: name, Name: name, Language: m[2]})
	}
	return voices
}
