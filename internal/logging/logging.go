// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level and encoding of a logger.
type Options struct {
	Level string // logrus level name, "" means info
	JSON  bool
}

// New returns a logger writing to out.
func New(out io.Writer, opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel

	if name := strings.TrimSpace(opts.Level); name != "" {
		parsed, err := logrus.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log, nil
}

// Discard returns a logger that drops everything, for tests and library
// callers that pass no logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)

	return log
}

// Every passes the first occurrence and then every n-th one, so a
// recurring real-time fault is logged without flooding.
func Every(count, n int64) bool {
	if n <= 1 {
		return true
	}
	return count == 1 || count%n == 0
}
