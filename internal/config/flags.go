package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
)

var knownFlags = []string{"-m", "-l", "-f", "-s", "-t", "-i"}

// parseFlags overlays command-line flags on config.
//
// Supported flags:
//
//	-m string   guard mode (strict|loose)
//	-l string   log level (debug|info|warn|error)
//	-f string   log format (auto|text|json)
//	-s string   token secret key
//	-t int      token validity, minutes
//	-i string   identity token to evaluate
//
// Unknown flags are dropped by flagx.FilterArgs so -c/-config can share
// the command line.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("gatekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Mode, "m", config.Mode, "guard mode (strict|loose)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (auto|text|json)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.Token, "i", config.Token, "identity token")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// keep sub-minute JSON values unless -t was given explicitly
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		}
	})

	return nil
}
