package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	DataDir       string
	RedisURL      string
	CacheTTL      time.Duration
}

// Ingest captures configuration for the batch ingestion pipeline.
type Ingest struct {
	DataDir          string
	ServeDir         string
	SourceURLs       map[string]string
	FetchTimeout     time.Duration
	ChunkSizeLimit   int64
	VersionSizeLimit int64
}

// RedisConfig holds connection settings for the optional Redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Default source feed endpoints. Overridable per source via env so operators
// can point a single feed at a mirror without touching the others.
const (
	defaultUNURL = "https://scsanctions.un.org/resources/xml/en/consolidated.xml"
	defaultEUURL = "https://webgate.ec.europa.eu/fsd/fsf/public/files/xmlFullSanctionsList_1_1/content"
	defaultUSURL = "https://www.treasury.gov/ofac/downloads/sanctions/1.0/sdn_advanced.xml"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := getEnv("JWT_SIGNING_KEY", "")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          getEnv("SANCTIONWATCH_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     getEnv("JWT_ISSUER", "sanctionwatch"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "sanctionwatch-api"),
		DataDir:       getEnv("SANCTIONWATCH_DATA_DIR", "data"),
		RedisURL:      getEnv("REDIS_URL", ""),
		CacheTTL:      getDuration("DETAIL_CACHE_TTL", time.Hour),
	}
}

// IngestFromEnv builds the pipeline config from environment variables.
func IngestFromEnv() Ingest {
	return Ingest{
		DataDir:  getEnv("SANCTIONWATCH_DATA_DIR", "data"),
		ServeDir: getEnv("SANCTIONWATCH_SERVE_DIR", "data"),
		SourceURLs: map[string]string{
			"UN": getEnv("SOURCE_URL_UN", defaultUNURL),
			"EU": getEnv("SOURCE_URL_EU", defaultEUURL),
			"US": getEnv("SOURCE_URL_US", defaultUSURL),
		},
		FetchTimeout:     getDuration("SOURCE_FETCH_TIMEOUT", 2*time.Minute),
		ChunkSizeLimit:   getInt64("CHUNK_SIZE_LIMIT", 1536*1024),
		VersionSizeLimit: getInt64("VERSION_SIZE_LIMIT", 100*1024*1024),
	}
}

// Redis builds the Redis connection settings for the Server config.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
		MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
