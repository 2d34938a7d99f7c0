package cask

import (
	"go.uber.org/zap"

	"github.com/cask-framework/cask/config"
)

// Option configures an ApplicationContext before Start.
type Option func(*ApplicationContext)

// WithLogger sets the logger used for startup diagnostics and
// teardown reporting. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *ApplicationContext) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSources adds definition sources to the scan set.
func WithSources(sources ...Source) Option {
	return func(c *ApplicationContext) {
		for _, src := range sources {
			c.scanner.Add(src)
		}
	}
}

// WithModules adds registration modules applied before scanning.
func WithModules(modules ...ModuleOption) Option {
	return func(c *ApplicationContext) {
		c.modules = append(c.modules, modules...)
	}
}

// WithConfigSource sets the raw configuration source bound during the
// config phase of Start, against the schema from WithConfigSchema.
func WithConfigSource(src config.Source) Option {
	return func(c *ApplicationContext) {
		c.cfgSource = src
	}
}

// WithConfigSchema sets the schema the configuration source is bound
// against.
func WithConfigSchema(schema config.Schema) Option {
	return func(c *ApplicationContext) {
		c.cfgSchema = schema
	}
}

// WithConfig installs an already-bound configuration node, bypassing
// the binding phase. Useful in tests and when the host process binds
// configuration itself.
func WithConfig(node *config.Node) Option {
	return func(c *ApplicationContext) {
		c.cfg = node
	}
}
