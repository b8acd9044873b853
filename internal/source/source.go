// Package source supplies the raw hex transmission text.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrInputTooLarge = errors.New("source: input too large")
	ErrEmptyInput    = errors.New("source: no transmission line")
)

// TextSource yields one hex transmission line.
type TextSource interface {
	Text() (string, error)
	Name() string
}

// ReaderSource reads the first non-blank line of R.
type ReaderSource struct {
	R        io.Reader
	Label    string
	MaxBytes int64
}

func (s ReaderSource) Name() string {
	if s.Label == "" {
		return "reader"
	}
	return s.Label
}

func (s ReaderSource) Text() (string, error) {
	r := s.R
	if s.MaxBytes > 0 {
		r = io.LimitReader(s.R, s.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", s.Name(), err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return "", fmt.Errorf("source %s: %w (limit %d bytes)", s.Name(), ErrInputTooLarge, s.MaxBytes)
	}
	return firstLine(s.Name(), string(data))
}

// FileSource reads the transmission from a file on disk.
type FileSource struct {
	Path     string
	MaxBytes int64
}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Text() (string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return "", fmt.Errorf("source %s: %w", s.Path, err)
	}
	defer f.Close()
	return ReaderSource{R: f, Label: s.Path, MaxBytes: s.MaxBytes}.Text()
}

// StringSource serves a fixed transmission.
type StringSource string

func (s StringSource) Name() string {
	return "string"
}

func (s StringSource) Text() (string, error) {
	return firstLine(s.Name(), string(s))
}

func firstLine(name, text string) (string, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("source %s: %w", name, err)
	}
	return "", fmt.Errorf("source %s: %w", name, ErrEmptyInput)
}
