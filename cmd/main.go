package main

import (
	"CareClinic/cache"
	"CareClinic/config"
	"CareClinic/database"
	"CareClinic/logger"
	"CareClinic/messaging"
	"CareClinic/routes"
	"CareClinic/utils"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "careclinic",
		Short: "CareClinic healthcare back end",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(database.Migrate)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo accounts and sample history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *gorm.DB) error {
				if err := database.Migrate(db); err != nil {
					return err
				}
				return database.Seed(db, time.Now())
			})
		},
	}
}

func setup() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Env, cfg.LogLevel)
	return cfg, nil
}

func withDatabase(fn func(db *gorm.DB) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	db, err := database.InitDB(context.Background(), cfg.DBURL, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func runServer() error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	// Initialize the database
	db, err := database.InitDB(context.Background(), cfg.DBURL, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Initialize Redis
	redisConfig, err := database.LoadRedisConfig(cfg.RedisAddress)
	if err != nil {
		return err
	}
	redisClient, err := database.NewRedisClient(redisConfig)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Initialize the cache utility
	appCache, err := cache.NewCache(redisClient)
	if err != nil {
		return err
	}

	publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		return err
	}
	defer publisher.Close()

	handler, err := routes.SetupRoutes(appCache, redisClient, cfg, db, publisher, utils.NewSMTPMailer(cfg.SMTP))
	if err != nil {
		return err
	}

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	serveErr := make(chan error, 1)

	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	log.Info().Msg("server exited gracefully")
	return nil
}
