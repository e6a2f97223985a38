package service

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"github.com/k8ika0s/wheel-inspector/internal/cache"
	"github.com/k8ika0s/wheel-inspector/internal/events"
	"github.com/k8ika0s/wheel-inspector/internal/objectstore"
	"github.com/k8ika0s/wheel-inspector/internal/policy"
	"github.com/k8ika0s/wheel-inspector/internal/store"
)

// Config holds inspector settings.
type Config struct {
	HTTPAddr            string
	InspectorToken      string
	ObjectStoreEndpoint string
	ObjectStoreBucket   string
	ObjectStoreAccess   string
	ObjectStoreSecret   string
	ObjectStoreUseSSL   bool
	RedisURL            string
	RedisKeyPrefix      string
	CacheTTLSec         int
	KafkaBrokers        string
	KafkaTopic          string
	PostgresDSN         string
	PolicyPath          string
	Concurrency         int
	ScanLimit           int
}

func fromEnv() Config {
	return Config{
		HTTPAddr:            getenv("INSPECTOR_HTTP_ADDR", ":9100"),
		InspectorToken:      getenv("INSPECTOR_TOKEN", ""),
		ObjectStoreEndpoint: getenv("OBJECT_STORE_ENDPOINT", ""),
		ObjectStoreBucket:   getenv("OBJECT_STORE_BUCKET", "wheels"),
		ObjectStoreAccess:   getenv("OBJECT_STORE_ACCESS_KEY", ""),
		ObjectStoreSecret:   getenv("OBJECT_STORE_SECRET_KEY", ""),
		ObjectStoreUseSSL:   getenvBool("OBJECT_STORE_USE_SSL", false),
		RedisURL:            getenv("REDIS_URL", ""),
		RedisKeyPrefix:      getenv("REDIS_KEY_PREFIX", "inspector:report"),
		CacheTTLSec:         getenvInt("CACHE_TTL_SEC", 3600),
		KafkaBrokers:        getenv("KAFKA_BROKERS", ""),
		KafkaTopic:          getenv("KAFKA_TOPIC", "inspector.events"),
		PostgresDSN:         getenv("POSTGRES_DSN", ""),
		PolicyPath:          getenv("POLICY_PATH", ""),
		Concurrency:         getenvInt("INSPECT_CONCURRENCY", 8),
		ScanLimit:           getenvInt("SCAN_LIMIT", 200),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y":
			return true
		case "0", "false", "no", "n":
			return false
		}
	}
	return def
}

// ObjectStore builds an object storage client if configured.
func (c Config) ObjectStore() objectstore.Store {
	if c.ObjectStoreEndpoint == "" || c.ObjectStoreBucket == "" {
		return objectstore.NullStore{}
	}
	s, err := objectstore.NewMinIOStore(c.ObjectStoreEndpoint, c.ObjectStoreAccess, c.ObjectStoreSecret, c.ObjectStoreBucket, c.ObjectStoreUseSSL)
	if err != nil {
		log.Printf("object store unavailable: %v", err)
		return objectstore.NullStore{}
	}
	return s
}

// Cache builds the report cache if configured.
func (c Config) Cache() cache.Cache {
	if c.RedisURL == "" {
		return cache.NullCache{}
	}
	return cache.NewRedisCache(c.RedisURL, c.RedisKeyPrefix)
}

// Publisher builds the event publisher if configured.
func (c Config) Publisher() events.Publisher {
	if c.KafkaBrokers == "" {
		return events.NullPublisher{}
	}
	return events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
}

// ReportStore builds report persistence, falling back to memory.
func (c Config) ReportStore() store.Store {
	if c.PostgresDSN == "" {
		return &store.MemoryStore{}
	}
	db, err := sql.Open("postgres", c.PostgresDSN)
	if err != nil {
		log.Printf("postgres unavailable: %v", err)
		return &store.MemoryStore{}
	}
	ps := store.NewPostgres(db)
	if err := ps.Migrate(context.Background()); err != nil {
		log.Printf("postgres migrate failed: %v", err)
		return &store.MemoryStore{}
	}
	return ps
}

// LoadPolicy reads the digest policy, falling back to the default.
func (c Config) LoadPolicy() policy.Policy {
	if c.PolicyPath == "" {
		return policy.Default()
	}
	p, err := policy.Load(c.PolicyPath)
	if err != nil {
		log.Printf("policy %s unavailable, using default: %v", c.PolicyPath, err)
		return policy.Default()
	}
	return p
}
