package main

import (
	"os"

	"github.com/mytheresa/catalog-admin/app/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("catalog failed")
		os.Exit(1)
	}
}
