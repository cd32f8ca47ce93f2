package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"autotrip/config"
	"autotrip/database"
	"autotrip/handlers"
	"autotrip/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open session store")
	}
	defer store.Close()

	// Backend and maps clients
	api := services.NewAPIClient(cfg.APIBaseURL,
		services.WithToken(cfg.APIToken),
		services.WithTimeout(cfg.APITimeout),
	)
	maps := services.NewMapsClient(cfg.MapsAPIKey, cfg.MapsBaseURL, cfg.MapsRateLimit)
	cache := services.NewQueryCache(cfg.QueryStaleTime)

	h := handlers.New(api, maps, cache, store)
	h.GenerateTimeout = cfg.APITimeout

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger())

	// Trusted proxies (the app usually sits behind one)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.SetHTMLTemplate(handlers.Templates())
	h.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", store.Kind()).Strs("origins", cfg.AllowedOrigins).
			Msg("🚀 AutoTrip starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	h.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	if strings.EqualFold(cfg.SessionStore, "memory") {
		log.Warn().Msg("⚠️  Using in-memory session store, sessions are lost on restart")
		return database.NewMemoryStore(), nil
	}
	return database.OpenPostgres(ctx, cfg.DatabaseDSN)
}
