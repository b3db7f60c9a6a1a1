package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// newLogger builds the per-invocation logger. Silent mode drops every
// warning; verbose mode enables debug output.
func newLogger(w io.Writer, level string, verbose, silent bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})

	parsed := logrus.WarnLevel
	if strings.TrimSpace(level) != "" {
		var err error
		parsed, err = logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if verbose {
		parsed = logrus.DebugLevel
	}
	if silent && parsed > logrus.ErrorLevel {
		parsed = logrus.ErrorLevel
	}
	logger.SetLevel(parsed)
	return logger, nil
}
