// Command statsctl inspects stat definitions, prints aggregated tables and
// manages the schema of a dugout database.
//
// Usage:
//
//	statsctl definitions
//	statsctl table --league sandlot --season 1 --definition player_season_hitting
//	statsctl migrate up
//	statsctl schedule --league sandlot --season 1 --start 2024-05-04 --end 2024-08-31 --days sat,sun
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
