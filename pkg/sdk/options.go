package insurefilter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis", "postgres" or "memory"
	addrs    []string
	password string
	dsn      string

	keyPrefix  string
	maxResults int
	records    []Record

	emptyCriteria   EmptyCriteria
	legacyAgeAround bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres configures the client to query PostgreSQL.
// The schema must already be migrated (insurectl migrate up).
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.dsn = dsn
	})
}

// WithMemory keeps records in process. This is the default.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithKeyPrefix namespaces Redis/Valkey keys and the search index.
// Default: "insurefilter:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxResults caps the records returned by one Filter call. Default: 1000.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithRecords upserts records once the store is ready.
func WithRecords(records ...Record) Option {
	return optionFunc(func(c *clientConfig) {
		c.records = append(c.records, records...)
	})
}

// WithEmptyCriteria sets what criteria that compile to no filter return.
// Default: MatchAll.
func WithEmptyCriteria(p EmptyCriteria) Option {
	return optionFunc(func(c *clientConfig) {
		c.emptyCriteria = p
	})
}

// WithLegacyAgeAround makes the age "around" range use price+5 as its upper bound.
func WithLegacyAgeAround(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.legacyAgeAround = enabled
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
