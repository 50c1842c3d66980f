package speech

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// ESpeak implements text-to-speech using espeak-ng or espeak
type ESpeak struct {
	run      runner
	lookPath func(string) (string, error)
	binary   string
}

// NewESpeak creates an espeak engine. binary may be empty to search for
// espeak-ng and espeak in PATH.
func NewESpeak(binary string) *ESpeak {
	return &ESpeak{
		run:      execRunner,
		lookPath: exec.LookPath,
		binary:   binary,
	}
}

// Name returns "espeak"
func (e *ESpeak) Name() string {
	return "espeak"
}

// bin resolves the executable
func (e *ESpeak) bin() (string, bool) {
	if e.binary != "" {
		if _, err := e.lookPath(e.binary); err == nil {
			return e.binary, true
		}
		return "", false
	}
	for _, name := range []string{"espeak-ng", "espeak"} {
		if _, err := e.lookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}

// Available checks whether an espeak binary is installed
func (e *ESpeak) Available() bool {
	_, ok := e.bin()
	return ok
}

// Voices runs '--voices' and parses the table
func (e *ESpeak) Voices(ctx context.Context) ([]Voice, error) {
	bin, ok := e.bin()
	if !ok {
		return nil, ErrNoEngine
	}
	out, err := e.run(ctx, command{Name: bin, Args: []string{"--voices"}})
	if err != nil {
		return nil, err
	}
	return parseESpeakVoices(out), nil
}

// Say speaks text with the given voice and words per minute
func (e *ESpeak) Say(ctx context.Context, text string, voice Voice, rate int) error {
	bin, ok := e.bin()
	if !ok {
		return ErrNoEngine
	}

	args := []string{}
	if !voice.IsDefault() {
		args = append(args, "-v", voice.ID)
	}
	if rate > 0 {
		args = append(args, "-s", strconv.Itoa(rate))
	}
	args = append(args, "--stdin")

	_, err := e.run(ctx, command{Name: bin, Args: args, Stdin: strings.NewReader(text)})
	return err
}

// parseESpeakVoices parses lines like
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  de              --/M      German             gmw/de
func parseESpeakVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, Voice{
			ID:       fields[1],
			Name:     fields[3],
			Language: fields[1],
		})
	}
	return voices
}
