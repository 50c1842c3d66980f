// ============================================================================
// VoiceDesk - Aufnahme & Sprachausgabe
// ============================================================================
//
// Package:     library
// Description: Recordings directory: listing, naming and deletion
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/msto63/voicedesk/pkg/core/logging"
)

// Ext is the file extension of recordings
const Ext = ".wav"

var (
	// ErrNotFound is returned for recordings that do not exist
	ErrNotFound = errors.New("recording not found")

	// ErrInvalidName is returned for names that would leave the directory
	ErrInvalidName = errors.New("invalid recording name")
)

// Recording is a saved recording file
type Recording struct {
	Name    string // file name including extension
	Path    string
	Size    int64
	ModTime time.Time
}

// Library manages the recordings directory
type Library struct {
	dir    string
	logger *logging.Logger
}

// Open uses dir as recordings directory and creates it if missing
func Open(dir string, logger *logging.Logger) (*Library, error) {
	if logger == nil {
		logger = logging.Discard("LIBR")
	}
	if dir == "" {
		return nil, fmt.Errorf("recordings directory is required")
	}

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create recordings directory: %w", err)
		}
		logger.Info("Recordings directory created", "dir", dir)
	} else if err != nil {
		return nil, fmt.Errorf("failed to access recordings directory: %w", err)
	}

	return &Library{dir: dir, logger: logger}, nil
}

// Dir returns the recordings directory
func (l *Library) Dir() string {
	return l.dir
}

// List returns every .wav file in directory listing order
func (l *Library) List() ([]Recording, error) {
	d, err := os.Open(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open recordings directory: %w", err)
	}
	defer d.Close()

	// File.ReadDir keeps the order of the underlying listing
	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read recordings directory: %w", err)
	}

	var recs []Recording
	for _, entry := range entries {
		if entry.IsDir() || !IsRecording(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		// Stat follows symlinks
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			// Removed while listing or a dangling link
			continue
		}
		recs = append(recs, Recording{
			Name:    entry.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return recs, nil
}

// IsRecording reports whether a file name ends in the recording extension
func IsRecording(name string) bool {
	return strings.HasSuffix(name, Ext)
}

// validName rejects names that are empty or point outside the directory
func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// PathFor returns the path for a new recording called name. The extension
// is appended unless present.
func (l *Library) PathFor(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validName(name); err != nil {
		return "", err
	}
	if !IsRecording(name) {
		name += Ext
	}
	return filepath.Join(l.dir, name), nil
}

// Resolve returns the path of an existing recording file
func (l *Library) Resolve(file string) (string, error) {
	if err := validName(file); err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, file)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access %s: %w", file, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a file", ErrNotFound, file)
	}
	return path, nil
}

// Delete removes exactly the named recording
func (l *Library) Delete(file string) error {
	path, err := l.Resolve(file)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, file)
		}
		return fmt.Errorf("failed to delete %s: %w", file, err)
	}
	l.logger.Info("Recording deleted", "file", file)
	return nil
}

// DefaultName returns recording_YYYYMMDD_HHMMSS for t
func DefaultName(t time.Time) string {
	return "recording_" + t.Format("20060102_150405")
}
