package nexttag

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// OutputEnvVar names the environment variable holding the CI output path.
const OutputEnvVar = "GITHUB_OUTPUT"

// OutputWriter appends key=value pairs to the CI output file. A missing path
// is non-fatal; writes are skipped with a warning.
type OutputWriter struct {
	path   string
	logger *log.Logger
}

// NewOutputWriter writes to the given file path. An empty path disables
// writing.
func NewOutputWriter(path string, logger *log.Logger) *OutputWriter {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &OutputWriter{path: path, logger: logger}
}

// NewOutputWriterFromEnv resolves the output path from GITHUB_OUTPUT.
func NewOutputWriterFromEnv(logger *log.Logger) *OutputWriter {
	return NewOutputWriter(os.Getenv(OutputEnvVar), logger)
}

// Set appends one key=value line. All failures are reported as warnings and
// never abort the run.
func (w *OutputWriter) Set(key, value string) {
	if w.path == "" {
		w.logger.Warn("output sink not configured, skipping", "key", key)
		return
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger.Warn("failed to open output sink", "key", key, "err", err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		w.logger.Warn("failed to write output", "key", key, "err", err)
	}
}
