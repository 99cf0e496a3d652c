// Package config carga la configuración del proceso desde variables de entorno.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	AppName  string
	LogLevel string
	LogFmt   string

	// Store
	StoreDriver string // memory | postgres | sqlite
	DatabaseDSN string
	SQLitePath  string
	DBMaxConns  int

	// Fotos
	PhotoDriver     string // none | memory | s3 | minio
	PhotoMaxBytes   int64
	PhotoBucket     string
	PhotoRegion     string
	PhotoEndpoint   string
	PhotoAccessKey  string
	PhotoSecretKey  string
	PhotoPathStyle  bool
	PhotoUseSSL     bool
	PhotoPublicBase string

	// Geocoding (Mapbox)
	MapboxToken   string
	MapboxBaseURL string
	GeoCountry    string
	GeoBBox       string

	// Identidad
	IdentityMode   string // dev | jwt | introspect
	DevRoleHeader  bool   // solo dev: acepta X-Debug-User-Role
	JWTSecret      string
	JWTIssuer      string
	IdentityURL    string
	IdentityAPIKey string

	// Roles
	AdminEmails  []string
	AdminDomains []string
	StaffDomains []string

	// Realtime / search
	RedisURL       string
	RedisChannel   string
	MeiliURL       string
	MeiliMasterKey string

	EnforceFlow     bool
	ShutdownTimeout time.Duration
}

// Load lee env con defaults de desarrollo.
func Load() Config {
	return Config{
		Port:     getenv("PORT", "8080"),
		AppName:  getenv("APP_NAME", "civic-grievances"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFmt:   getenv("LOG_FORMAT", "text"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", defaultStoreDriver())),
		DatabaseDSN: os.Getenv("DB_DSN"),
		SQLitePath:  getenv("SQLITE_PATH", "grievances.db"),
		DBMaxConns:  getenvInt("DB_MAX_CONNS", 10),

		PhotoDriver:     strings.ToLower(getenv("PHOTO_DRIVER", "memory")),
		PhotoMaxBytes:   int64(getenvInt("PHOTO_MAX_BYTES", 5<<20)),
		PhotoBucket:     getenv("PHOTO_BUCKET", "grievance-photos"),
		PhotoRegion:     getenv("PHOTO_REGION", "us-east-1"),
		PhotoEndpoint:   os.Getenv("PHOTO_ENDPOINT"),
		PhotoAccessKey:  os.Getenv("PHOTO_ACCESS_KEY"),
		PhotoSecretKey:  os.Getenv("PHOTO_SECRET_KEY"),
		PhotoPathStyle:  getenvBool("PHOTO_PATH_STYLE", false),
		PhotoUseSSL:     getenvBool("PHOTO_USE_SSL", true),
		PhotoPublicBase: os.Getenv("PHOTO_PUBLIC_BASE_URL"),

		MapboxToken:   os.Getenv("MAPBOX_TOKEN"),
		MapboxBaseURL: getenv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		GeoCountry:    getenv("GEOCODE_COUNTRY", "in"),
		GeoBBox:       getenv("GEOCODE_BBOX", "78.2,17.2,78.7,17.6"),

		IdentityMode:   strings.ToLower(getenv("IDENTITY_MODE", "dev")),
		DevRoleHeader:  getenvBool("DEV_TRUST_ROLE_HEADER", false),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      os.Getenv("JWT_ISSUER"),
		IdentityURL:    os.Getenv("IDENTITY_URL"),
		IdentityAPIKey: os.Getenv("IDENTITY_API_KEY"),

		AdminEmails:  getenvList("ROLE_ADMIN_EMAILS"),
		AdminDomains: getenvList("ROLE_ADMIN_DOMAINS"),
		StaffDomains: getenvList("ROLE_STAFF_DOMAINS"),

		RedisURL:       os.Getenv("REDIS_URL"),
		RedisChannel:   getenv("REDIS_CHANNEL", "grievances:changes"),
		MeiliURL:       os.Getenv("MEILI_URL"),
		MeiliMasterKey: os.Getenv("MEILI_MASTER_KEY"),

		EnforceFlow:     getenvBool("GRIEVANCE_ENFORCE_FLOW", true),
		ShutdownTimeout: getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Si hay DB_DSN asumimos postgres, igual que el router antes de tener STORE_DRIVER.
func defaultStoreDriver() string {
	if os.Getenv("DB_DSN") != "" {
		return "postgres"
	}
	return "memory"
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getenvList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
