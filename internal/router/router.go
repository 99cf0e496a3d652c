package router

import (
	"context"
	"encoding/json"
	"net/http"

	"civic-grievances/internal/adapters/realtime/local"
	mem "civic-grievances/internal/adapters/storage/memory"
	"civic-grievances/internal/domain/grievances"
	"civic-grievances/internal/domain/locations"
	"civic-grievances/internal/domain/roles"
	"civic-grievances/internal/middleware"
	"civic-grievances/internal/platform/logger"
	"civic-grievances/internal/platform/metrics"
	"civic-grievances/internal/ports/auth"
	"civic-grievances/internal/ports/geocoding"
	"civic-grievances/internal/ports/photos"
	"civic-grievances/internal/ports/realtime"
	"civic-grievances/internal/ports/search"

	_ "civic-grievances/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Context acota la vida del feed en vivo. nil = context.Background().
	Context context.Context

	Logger  logger.Logger
	Metrics *metrics.Metrics

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	RolePolicy   *roles.Policy     // nil = roles.DefaultPolicy()
	// TrustDevRoleHeader habilita X-Debug-User-Role; solo aplica en modo dev.
	TrustDevRoleHeader bool

	// Opcional: si no viene, in-memory.
	Repo grievances.Repository
	Bus  realtime.Bus

	Photos        photos.Store
	PhotoHandler  http.Handler // se monta en /photos
	Index         search.Index
	Geocoder      geocoding.Provider
	GeoBBox       *geocoding.BBox
	Flow          *grievances.FlowPolicy // nil = flujo forzado
	MaxPhotoBytes int64
}

func NewRouter(opts Options) http.Handler {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	flow := grievances.FlowPolicy{Enforce: true}
	if opts.Flow != nil {
		flow = *opts.Flow
	}
	policy := roles.DefaultPolicy()
	if opts.RolePolicy != nil {
		policy = *opts.RolePolicy
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log, opts.Metrics))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, policy, log, middleware.AuthOptions{
		TrustRoleHeader: opts.AuthVerifier == nil && opts.TrustDevRoleHeader,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/me", meHandler)

	if opts.PhotoHandler != nil {
		r.Handle("/photos/*", http.StripPrefix("/photos", opts.PhotoHandler))
	}

	repo := opts.Repo
	if repo == nil {
		repo = mem.NewGrievanceRepo()
	}
	bus := opts.Bus
	if bus == nil {
		bus = local.New()
	}

	// Services por módulo
	svc := grievances.NewService(repo, grievances.Options{
		Photos:        opts.Photos,
		Bus:           bus,
		Index:         opts.Index,
		Logger:        log,
		Metrics:       opts.Metrics,
		Flow:          flow,
		MaxPhotoBytes: opts.MaxPhotoBytes,
	})
	feed := grievances.NewFeed(repo, bus, log, opts.Metrics)
	go func() {
		if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("live feed stopped", logger.Fields{"err": err})
		}
	}()
	geoSvc := locations.NewService(opts.Geocoder, opts.GeoBBox, log)

	// Rutas por módulo
	grievances.RegisterRoutes(r, svc, feed)
	locations.RegisterRoutes(r, geoSvc)

	return r
}

type meResponse struct {
	UserID  string     `json:"userId"`
	Email   string     `json:"email,omitempty"`
	Name    string     `json:"name,omitempty"`
	Picture string     `json:"picture,omitempty"`
	Role    roles.Role `json:"role"`
}

// meHandler godoc
// @Summary Sesión actual
// @Description Devuelve el usuario autenticado y el rol resuelto.
// @Tags session
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me [get]
func meHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(meResponse{
		UserID:  s.Claims.UserID,
		Email:   s.Claims.Email,
		Name:    s.Claims.Name,
		Picture: s.Claims.Picture,
		Role:    s.Role,
	})
}
