package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/codecraft-dev/codecraft-server/reviewservice"
)

func main() {
	if err := reviewservice.Run(); err != nil {
		log.Error().Err(err).Msg("codecraft-service exited with error")
		os.Exit(1)
	}
}
