// Package logging points the standard logger at a rotating log file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"moviefinder/config"
)

// Options controls where log output goes.
type Options struct {
	config.LogSettings
	// Console also copies every line to stderr. The terminal UI leaves this
	// off so log lines never land on top of the rendered screen.
	Console bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup redirects the standard logger and returns a closer for the file
// writer. With no file configured, output goes to stderr when Console is
// set and is discarded otherwise.
func Setup(opts Options) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if opts.File == "" {
		if opts.Console {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		return nopCloser{}, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}

	var out io.Writer = rotator
	if opts.Console {
		out = io.MultiWriter(os.Stderr, rotator)
	}
	log.SetOutput(out)
	return rotator, nil
}
