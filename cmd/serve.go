package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"civicsync-be/config"
	"civicsync-be/controllers"
	"civicsync-be/middlewares"
	"civicsync-be/routes"
	"civicsync-be/services"
	"civicsync-be/storage"
	"civicsync-be/utils"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	blobs, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		return err
	}

	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	enforcer, err := middlewares.NewEnforcer()
	if err != nil {
		return err
	}

	var limiter *middlewares.IssueRateLimiter
	if cfg.Redis.Enabled() {
		rdb, err := config.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = middlewares.NewIssueRateLimiter(rdb, cfg.RateLimit.KeyPrefix, cfg.RateLimit.IssuesPerDay, log)
		log.Info("issue rate limiting enabled", "per_day", cfg.RateLimit.IssuesPerDay)
	} else {
		log.Warn("redis not configured, issue rate limiting disabled")
	}

	issueService := services.NewIssueService(st, blobs, log)
	voteService := services.NewVoteService(st, log)
	listingService := services.NewListingService(st, voteService)
	mediaService := services.NewMediaService(st, blobs, log)
	analyticsService := services.NewAnalyticsService(st, cfg.Analytics.Location())
	mapService := services.NewMapService(st)
	authService := services.NewAuthService(st, tokens, cfg.Auth.BcryptCost, log)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	router := routes.Setup(routes.Deps{
		Log:            log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadsDir:     blobs.Dir(),
		UploadsURL:     cfg.Storage.BaseURL,
		Auth:           middlewares.NewAuthMiddleware(authService, cfg.Auth.CookieName, log),
		Enforcer:       enforcer,
		RateLimit:      limiter,
		AuthController: controllers.NewAuthController(authService, controllers.CookieSettings{
			Name:   cfg.Auth.CookieName,
			MaxAge: int(cfg.Auth.TokenTTL().Seconds()),
			Domain: cfg.Server.Domain,
			Secure: cfg.Server.IsProduction(),
		}),
		IssueController:     controllers.NewIssueController(issueService, listingService),
		VoteController:      controllers.NewVoteController(voteService),
		MediaController:     controllers.NewMediaController(mediaService, cfg.Storage.MaxUploadBytes),
		AnalyticsController: controllers.NewAnalyticsController(analyticsService),
		MapController:       controllers.NewMapController(mapService),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", srv.Addr, "mode", cfg.Server.Mode, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return err
	}

	log.Info("server exited gracefully")
	return nil
}
