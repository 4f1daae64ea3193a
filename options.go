package htmlmodule

import "github.com/rs/zerolog"

type config struct {
	engine          Engine
	log             zerolog.Logger
	dir             string
	logMembers      bool
	rewriteDocument bool
}

// Option is a configuration option for Rewrite.
type Option func(*config)

// RewriteDocument is accepted for compatibility; it does not currently alter
// the output.
func RewriteDocument(c *config) {
	c.rewriteDocument = true
}

// LogMembers logs, at debug level, the member-expression keypaths used by
// each inline module script.
func LogMembers(c *config) {
	c.logMembers = true
}

// Bundler sets the Engine used to bundle documents containing module scripts.
//
// The default is Esbuild.
func Bundler(e Engine) Option {
	return func(c *config) {
		c.engine = e
	}
}

// Logger sets the logger for diagnostic output.
func Logger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WorkingDir sets the absolute working directory of the default Esbuild
// engine.
func WorkingDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}
