package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON zerolog Logger on stdout.
// APP_ENV=dev (or development) switches to the console writer.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
