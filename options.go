package nebulamap

import (
	"log/slog"

	"github.com/nebulamap/nebulamap/graph"
	"github.com/nebulamap/nebulamap/jsonpath"
	"github.com/nebulamap/nebulamap/transform"
)

// Option configures a Pipeline.
type Option func(*config)

// config holds configuration for a Pipeline instance.
type config struct {
	logger     *slog.Logger
	resolver   *jsonpath.Resolver
	transforms *transform.Registry
	batchSize  int
	schemaOnly bool
}

// WithLogger sets a custom logger for the pipeline.
// If not provided, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithResolver sets a shared path resolver. Sharing a resolver across
// pipelines shares its parsed-path cache.
func WithResolver(r *jsonpath.Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithTransforms sets the transform registry used to resolve transform
// references in mapping files. If not provided, a registry holding the
// built-in transforms is used.
func WithTransforms(r *transform.Registry) Option {
	return func(c *config) {
		c.transforms = r
	}
}

// WithBatchSize sets the number of records per INSERT statement.
// Values below one fall back to the default.
func WithBatchSize(n int) Option {
	return func(c *config) {
		c.batchSize = n
	}
}

// WithSchemaOnly restricts generation to the schema DDL statements,
// skipping the data statements entirely.
func WithSchemaOnly(schemaOnly bool) Option {
	return func(c *config) {
		c.schemaOnly = schemaOnly
	}
}

func newConfig(opts []Option) *config {
	c := &config{batchSize: graph.DefaultBatchSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.resolver == nil {
		c.resolver = jsonpath.NewResolver()
	}
	if c.transforms == nil {
		c.transforms = transform.NewRegistry()
	}
	return c
}
