package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the process logger. Output goes to stdout and, when file is
// set, is appended to that file as well. An unknown level falls back to info.
// The returned closer releases the file and is never nil.
func New(level, file string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if file != "" {
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl), closer,
					fmt.Errorf("creating log dir: %w", err)
			}
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl), closer,
				fmt.Errorf("opening log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(os.Stdout, f)
		closer = f
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
