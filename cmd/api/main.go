package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civic-grievances/internal/bootstrap"
	"civic-grievances/internal/config"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/platform/metrics"
	"civic-grievances/internal/router"

	"golang.org/x/sync/errgroup"
)

// @title Civic Grievances API
// @version 1.0
// @description Reporte y seguimiento de reclamos ciudadanos.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		App:    cfg.AppName,
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFmt),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Error("bootstrap failed", logger.Fields{"err": err})
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Warn("close dependencies", logger.Fields{"err": err})
		}
	}()

	r := router.NewRouter(router.Options{
		Context:            ctx,
		Logger:             log,
		Metrics:            metrics.New(),
		AuthVerifier:       deps.Verifier,
		RolePolicy:         &deps.RolePolicy,
		TrustDevRoleHeader: deps.TrustRoleHeader,
		Repo:               deps.Repo,
		Bus:                deps.Bus,
		Photos:             deps.Photos,
		PhotoHandler:       deps.PhotoHandler,
		Index:              deps.Index,
		Geocoder:           deps.Geocoder,
		GeoBBox:            deps.GeoBBox,
		Flow:               &deps.Flow,
		MaxPhotoBytes:      cfg.PhotoMaxBytes,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Error("listen failed", logger.Fields{"addr": cfg.Addr(), "err": err})
		stop()
		_ = deps.Close()
		os.Exit(1)
	}
	log.Info("starting server", logger.Fields{"addr": ln.Addr().String(), "store": cfg.StoreDriver, "identity": cfg.IdentityMode})

	if err := serve(ctx, newServer(ctx, r), ln, cfg.ShutdownTimeout, log); err != nil {
		log.Error("server error", logger.Fields{"err": err})
		stop()
		_ = deps.Close()
		os.Exit(1)
	}
}

// newServer ata los requests a ctx: al cancelarlo terminan también los
// streams abiertos, que de otro modo retienen Shutdown hasta el timeout.
func newServer(ctx context.Context, h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// sin WriteTimeout: /grievances/stream mantiene la conexión abierta
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info("shutting down", logger.Fields{"timeout": timeout.String()})
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
