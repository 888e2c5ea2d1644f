// README: Entry point; loads config, wires services, starts HTTP server and the fleet optimizer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gocars/internal/ai"
	"gocars/internal/config"
	httptransport "gocars/internal/http"
	"gocars/internal/infra"
	"gocars/internal/maps"
	"gocars/internal/modules/fleet"
	"gocars/internal/modules/matching"
	"gocars/internal/modules/outcome"
)

func main() {
	logger := infra.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("firebase init failed")
		}
	} else {
		logger.Warn().Msg("GOCARS_FIREBASE_PROJECT_ID not set, auth disabled")
	}

	outcomeStore := outcome.NewStore(dbPool)
	outcomeSvc := outcome.NewService(outcomeStore, logger)

	matchingStore := matching.NewStore(redisClient, dbPool)
	engine := matching.NewEngine(cfg.Matching.MaxDistanceKm, nil)
	matchingSvc := matching.NewService(engine, matchingStore, outcomeSvc, matchingStore, cfg.Matching, logger)

	fleetStore := fleet.NewStore(dbPool)
	notifier := fleet.NewRedisNotifier(redisClient)
	fleetSvc := fleet.NewService(fleetStore, fleetStore, matchingStore, notifier, fleetStore, cfg.Fleet, logger)

	if cfg.Google.MapsKey != "" {
		routes, err := maps.NewRouteService(cfg.Google.MapsKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("maps client init failed")
		}
		fleetSvc.WithTravelEstimator(routes)
	}
	if cfg.Google.GeminiKey != "" {
		advisor, err := ai.NewGeminiAdvisor(ctx, cfg.Google.GeminiKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini client init failed")
		}
		defer advisor.Close()
		fleetSvc.WithAdvisor(advisor)
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Matching:   matchingSvc,
		Outcomes:   outcomeSvc,
		Fleet:      fleetSvc,
		Candidates: matchingStore,
		Verifier:   verifier,
		Logger:     logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go fleetSvc.Run(ctx)

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Msg("gocars api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}
