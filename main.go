package main

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/logger"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/server"
)

func main() {
	logger.Init()

	srv, err := server.NewServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
}
