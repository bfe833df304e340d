package main

import (
	"os"

	"github.com/yigit/universe/internal/pkg/logger"
	"github.com/yigit/universe/internal/server"
)

func main() {
	srv, err := server.NewServer(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
