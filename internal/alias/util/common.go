package util

import (
	"log/slog"
	"os"
)

// CloseFileFunc closes f on an error path where the close error has nowhere
// better to go than the log.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("util.CloseFile", "file", f.Name(), "err", err)
	}
}
