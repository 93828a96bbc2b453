// Package logging configures zerolog for the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup parses level, points the global logger at out (stderr when nil) and
// returns it. DEV gets human readable console output, every other
// environment gets JSON lines.
func Setup(level, env string, out io.Writer) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("failed to parse log level: %w", err)
	}
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if env == "DEV" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger().Level(parsedLevel)
	return log.Logger, nil
}
