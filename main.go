package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"starwars-api/confs"
	"starwars-api/db"
	"starwars-api/logging"
	"starwars-api/server"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(cfg.Server.GinMode)

	// connect to database Postgres
	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer database.Close()

	// run server
	srv := server.NewServer(cfg.Server, database)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}
