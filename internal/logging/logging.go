package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Get returns a singleton slog logger writing to a file, so log output never
// corrupts the interactive terminal.
func Get() *slog.Logger {
	once.Do(func() {
		path := filepath.Join(os.TempDir(), "chatterbox.log")
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
			return
		}
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	})
	return logger
}
