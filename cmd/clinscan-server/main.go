package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinscan/clinscan/internal/config"
	"github.com/clinscan/clinscan/internal/domain/scoring"
	"github.com/clinscan/clinscan/internal/domain/screening"
	"github.com/clinscan/clinscan/internal/platform/auth"
	"github.com/clinscan/clinscan/internal/platform/db"
	"github.com/clinscan/clinscan/internal/platform/middleware"
	"github.com/clinscan/clinscan/internal/platform/textextract"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinscan-server",
		Short: "Clinical report screening API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the screening API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

// analyzeCmd runs the extraction pipeline over a local report file and
// prints the diagnosis record, without a server or database.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a report file and print the diagnosis record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			heartDisease, _ := cmd.Flags().GetString("heart-disease")
			smoking, _ := cmd.Flags().GetString("smoking-history")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			logger := zerolog.Nop()
			analyzer, err := screening.NewAnalyzer(cfg.Policy(), nil, logger)
			if err != nil {
				return err
			}

			in := screening.DeclaredInputs{HeartDisease: heartDisease, SmokingHistory: smoking}
			analysis, err := analyzer.Analyze(context.Background(), string(text), in)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().String("heart-disease", "", "Declared heart disease answer (Yes/No)")
	cmd.Flags().String("smoking-history", "", "Declared smoking history answer")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Repository: Postgres when configured, in-memory otherwise.
	ctx := context.Background()
	var repo screening.AnalysisRepository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		repo = screening.NewAnalysisRepoPG(pool)
		logger.Info().Msg("connected to database")
	} else {
		repo = screening.NewMemoryRepository()
		logger.Warn().Msg("no DATABASE_URL set, analyses are kept in memory only")
	}

	analyzer, err := screening.NewAnalyzer(cfg.Policy(), repo, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid extraction policy")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.BodyLimit(cfg.MaxBodySize, cfg.MaxUploadSize))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.AuthSecret),
		}))
	}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	apiV1 := e.Group("/api/v1")

	screeningHandler := screening.NewHandler(analyzer, repo, textextract.PlainText{})
	screeningHandler.RegisterRoutes(apiV1)

	if cfg.ScorerURL != "" {
		scorer := scoring.NewClient(cfg.ScorerURL, cfg.ScorerTimeout, logger)
		scoringHandler := scoring.NewHandler(repo, scorer)
		scoringHandler.RegisterRoutes(apiV1)
		logger.Info().Str("url", cfg.ScorerURL).Msg("risk model scoring enabled")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
