package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThierryWelling/simplo-ti/internal/config"
	"github.com/ThierryWelling/simplo-ti/internal/database"
	"github.com/ThierryWelling/simplo-ti/internal/mailer"
	"github.com/ThierryWelling/simplo-ti/internal/notify"
	"github.com/ThierryWelling/simplo-ti/internal/router"
	"github.com/ThierryWelling/simplo-ti/internal/storage"
	"github.com/ThierryWelling/simplo-ti/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// db
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	deps := router.Deps{}

	// optional: ticket event channel
	if cfg.RedisURL != "" {
		events, err := notify.NewPublisher(cfg.RedisURL, l)
		if err != nil {
			l.Fatal().Err(err).Msg("redis connect failed")
		}
		defer events.Close()
		deps.Events = events
		l.Info().Msg("ticket events enabled")
	}

	// optional: equipment image storage
	if cfg.MinioEndpoint != "" {
		images, err := storage.NewImageStore(context.Background(), storage.ImageStoreConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Secure:    cfg.MinioSecure,
			PublicURL: cfg.MediaBaseURL,
		})
		if err != nil {
			l.Fatal().Err(err).Msg("object storage init failed")
		}
		deps.Images = images
		l.Info().Str("bucket", cfg.MinioBucket).Msg("image storage enabled")
	}

	// optional: real mail delivery
	if cfg.SMTPHost != "" {
		deps.Mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.AppURL)
	}

	// http
	r := router.New(l, pool, cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
