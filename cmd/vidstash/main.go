package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidstash/internal/config"
	"vidstash/internal/server"
	"vidstash/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := "./config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}

	configureLogger(logger, &cfg.Logging)

	// Initialize playlist store
	st, err := store.NewStore(cfg.Store.Path, cfg.Store.MaxConnections, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error initializing playlist store")
	}
	defer st.Close()

	// Create the API server
	apiServer, err := server.NewServer(cfg, st, logger)
	if err != nil {
		logger.WithError(err).Fatal("Error creating API server")
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for shutdown signal
	<-c

	logger.Info("Received shutdown signal")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Shutdown did not complete cleanly")
	}
}

// configureLogger applies the logging section of the configuration.
func configureLogger(logger *logrus.Logger, cfg *config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.WithError(err).Warn("Could not open log file, logging to stderr")
		} else {
			logger.SetOutput(file)
		}
	}
}
