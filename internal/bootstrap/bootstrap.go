// Package bootstrap arma los adaptadores concretos a partir de la configuración.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"civic-grievances/internal/adapters/auth/identity"
	"civic-grievances/internal/adapters/auth/jwtverifier"
	"civic-grievances/internal/adapters/geocoding/mapbox"
	photomem "civic-grievances/internal/adapters/photos/memory"
	"civic-grievances/internal/adapters/photos/miniostore"
	"civic-grievances/internal/adapters/photos/s3store"
	"civic-grievances/internal/adapters/realtime/local"
	"civic-grievances/internal/adapters/realtime/redisbus"
	"civic-grievances/internal/adapters/search/meili"
	mem "civic-grievances/internal/adapters/storage/memory"
	pg "civic-grievances/internal/adapters/storage/postgres"
	"civic-grievances/internal/adapters/storage/sqlite"
	"civic-grievances/internal/config"
	"civic-grievances/internal/domain/grievances"
	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/ports/auth"
	"civic-grievances/internal/ports/geocoding"
	"civic-grievances/internal/ports/photos"
	"civic-grievances/internal/ports/realtime"
	"civic-grievances/internal/ports/search"
)

const (
	PhotoRoute      = "/photos"
	upstreamTimeout = 5 * time.Second
)

// Deps son los colaboradores ya construidos. Los campos opcionales quedan nil
// cuando la configuración no los habilita.
type Deps struct {
	Repo         grievances.Repository
	Photos       photos.Store
	PhotoHandler http.Handler // solo con PHOTO_DRIVER=memory
	Bus          realtime.Bus
	Index        search.Index
	Geocoder     geocoding.Provider
	GeoBBox      *geocoding.BBox
	Verifier     auth.AuthVerifier // nil = modo dev (headers X-Debug-*)
	// TrustRoleHeader solo puede ser true en modo dev con DEV_TRUST_ROLE_HEADER.
	TrustRoleHeader bool
	RolePolicy      roles.Policy
	Flow            grievances.FlowPolicy

	closers []func() error
}

// Build construye todo; si algo falla cierra lo que ya estaba abierto.
func Build(ctx context.Context, cfg config.Config, log logger.Logger) (d *Deps, err error) {
	if log == nil {
		log = logger.Nop()
	}
	d = &Deps{
		RolePolicy: roles.DefaultPolicy().Merge(roles.Policy{
			AdminEmails:  cfg.AdminEmails,
			AdminDomains: cfg.AdminDomains,
			StaffDomains: cfg.StaffDomains,
		}),
		Flow: grievances.FlowPolicy{Enforce: cfg.EnforceFlow},
	}
	defer func() {
		if err != nil {
			_ = d.Close()
			d = nil
		}
	}()

	steps := []func(context.Context, config.Config, logger.Logger) error{
		d.buildStore,
		d.buildPhotos,
		d.buildBus,
		d.buildIndex,
		d.buildGeocoder,
		d.buildVerifier,
	}
	for _, step := range steps {
		if err = step(ctx, cfg, log); err != nil {
			return d, err
		}
	}
	return d, nil
}

// Close cierra en orden inverso a la construcción.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}

func (d *Deps) onClose(fn func() error) { d.closers = append(d.closers, fn) }

func (d *Deps) buildStore(ctx context.Context, cfg config.Config, log logger.Logger) error {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.StoreDriver {
	case "memory", "":
		d.Repo = mem.NewGrievanceRepo()
		log.Info("store ready", logger.Fields{"driver": "memory"})
		return nil

	case "postgres":
		if cfg.DatabaseDSN == "" {
			return errors.New("bootstrap: DB_DSN is required for postgres")
		}
		if db, err = pg.Open(ctx, cfg.DatabaseDSN, pg.Options{MaxOpenConns: cfg.DBMaxConns}); err != nil {
			return fmt.Errorf("bootstrap: postgres: %w", err)
		}
		d.onClose(db.Close)
		if d.Repo, err = pg.NewGrievancesRepo(ctx, db); err != nil {
			return fmt.Errorf("bootstrap: postgres: %w", err)
		}

	case "sqlite":
		if db, err = sqlite.Open(ctx, cfg.SQLitePath); err != nil {
			return fmt.Errorf("bootstrap: sqlite: %w", err)
		}
		d.onClose(db.Close)
		if d.Repo, err = sqlite.NewGrievancesRepo(ctx, db); err != nil {
			return fmt.Errorf("bootstrap: sqlite: %w", err)
		}

	default:
		return fmt.Errorf("bootstrap: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	log.Info("store ready", logger.Fields{"driver": cfg.StoreDriver})
	return nil
}

func (d *Deps) buildPhotos(ctx context.Context, cfg config.Config, log logger.Logger) error {
	switch cfg.PhotoDriver {
	case "none":
		log.Warn("photo uploads disabled", nil)
		return nil

	case "memory", "":
		st := photomem.New(PhotoRoute)
		d.Photos = st
		d.PhotoHandler = st

	case "s3":
		st, err := s3store.New(ctx, s3store.Config{
			Region:          cfg.PhotoRegion,
			Bucket:          cfg.PhotoBucket,
			Endpoint:        cfg.PhotoEndpoint,
			AccessKeyID:     cfg.PhotoAccessKey,
			SecretAccessKey: cfg.PhotoSecretKey,
			PathStyle:       cfg.PhotoPathStyle,
			PublicBaseURL:   cfg.PhotoPublicBase,
		})
		if err != nil {
			return fmt.Errorf("bootstrap: s3: %w", err)
		}
		d.Photos = st

	case "minio":
		st, err := miniostore.New(miniostore.Config{
			Endpoint:      cfg.PhotoEndpoint,
			AccessKey:     cfg.PhotoAccessKey,
			SecretKey:     cfg.PhotoSecretKey,
			Bucket:        cfg.PhotoBucket,
			Region:        cfg.PhotoRegion,
			UseSSL:        cfg.PhotoUseSSL,
			PublicBaseURL: cfg.PhotoPublicBase,
		})
		if err != nil {
			return fmt.Errorf("bootstrap: minio: %w", err)
		}
		d.Photos = st

	default:
		return fmt.Errorf("bootstrap: unknown PHOTO_DRIVER %q", cfg.PhotoDriver)
	}

	log.Info("photo store ready", logger.Fields{"driver": cfg.PhotoDriver, "bucket": cfg.PhotoBucket})
	return nil
}

func (d *Deps) buildBus(ctx context.Context, cfg config.Config, log logger.Logger) error {
	if cfg.RedisURL == "" {
		d.Bus = local.New()
		return nil
	}
	b, err := redisbus.New(ctx, cfg.RedisURL, cfg.RedisChannel, log)
	if err != nil {
		return fmt.Errorf("bootstrap: redis: %w", err)
	}
	d.onClose(b.Close)
	d.Bus = b
	log.Info("realtime bus ready", logger.Fields{"driver": "redis", "channel": cfg.RedisChannel})
	return nil
}

func (d *Deps) buildIndex(_ context.Context, cfg config.Config, log logger.Logger) error {
	if cfg.MeiliURL == "" {
		return nil
	}
	ix := meili.New(cfg.MeiliURL, cfg.MeiliMasterKey, log, backfillFrom(d.Repo))
	d.onClose(func() error { ix.Close(); return nil })
	d.Index = ix
	return nil
}

// backfillFrom lee el store completo para poblar el índice.
func backfillFrom(repo grievances.Repository) meili.Loader {
	return func(ctx context.Context) ([]search.Document, error) {
		gs, err := repo.List(ctx, grievances.Query{})
		if err != nil {
			return nil, err
		}
		docs := make([]search.Document, 0, len(gs))
		for _, g := range gs {
			docs = append(docs, grievances.ToDocument(g))
		}
		return docs, nil
	}
}

func (d *Deps) buildGeocoder(_ context.Context, cfg config.Config, log logger.Logger) error {
	bbox, err := geocoding.ParseBBox(cfg.GeoBBox)
	if err != nil {
		return fmt.Errorf("bootstrap: GEOCODE_BBOX: %w", err)
	}
	d.GeoBBox = bbox

	if cfg.MapboxToken == "" {
		log.Warn("geocoding disabled, addresses fall back to coordinates", nil)
		return nil
	}
	c, err := mapbox.New(mapbox.Config{
		BaseURL: cfg.MapboxBaseURL,
		Token:   cfg.MapboxToken,
		Country: cfg.GeoCountry,
		Timeout: upstreamTimeout,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	d.Geocoder = c
	return nil
}

func (d *Deps) buildVerifier(_ context.Context, cfg config.Config, log logger.Logger) error {
	switch cfg.IdentityMode {
	case "dev", "":
		log.Warn("identity in dev mode, trusting X-Debug-User-* headers", nil)
		if cfg.DevRoleHeader {
			log.Warn("X-Debug-User-Role enabled, any caller can pick its role", nil)
			d.TrustRoleHeader = true
		}
		return nil

	case "jwt":
		v, err := jwtverifier.New(jwtverifier.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Leeway: 30 * time.Second})
		if err != nil {
			return fmt.Errorf("bootstrap: jwt: %w", err)
		}
		d.Verifier = v

	case "introspect":
		c, err := identity.NewClient(identity.Config{
			BaseURL: cfg.IdentityURL,
			APIKey:  cfg.IdentityAPIKey,
			Timeout: upstreamTimeout,
		})
		if err != nil {
			return fmt.Errorf("bootstrap: identity: %w", err)
		}
		if !c.IsConfigured() {
			return fmt.Errorf("bootstrap: identity: %w", identity.ErrNotConfigured)
		}
		d.Verifier = identity.NewVerifier(c)

	default:
		return fmt.Errorf("bootstrap: unknown IDENTITY_MODE %q", cfg.IdentityMode)
	}
	return nil
}
