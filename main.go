package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/shooting-roster/api"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rpupo63/shooting-roster/services"
)

func main() {
	fmt.Println("Initializing app...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Str("dbType", cfg.Database.Type).Msg("connecting to database")
	currentDB, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Msg("generating models and query helpers")
		if err := models.GenerateModels(currentDB.DB()); err != nil {
			log.Fatal().Err(err).Msg("error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if cfg.GenerateColumnReport {
		models.GenerateColumnMismatchReport(currentDB.DB())
		return
	}

	if err := currentDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating schema")
	}

	var opts []api.RouterOption
	if cfg.Redis.URL != "" {
		rdb, err := database.NewRedis(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, facet cache disabled")
		} else {
			defer rdb.Close()
			opts = append(opts, api.WithRedis(rdb))
		}
	}
	if cfg.Storage.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		images, err := services.NewS3ImageStore(ctx, cfg.Storage)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("image storage unavailable, uploads disabled")
		} else {
			opts = append(opts, api.WithImageStore(images))
		}
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, currentDB, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
