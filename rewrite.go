// Package htmlmodule rewrites an HTML document into a single javascript
// module.
//
// The module runs the document's module scripts, in order, and
// default-exports a Document constructed from the original HTML. Inline
// scripts may read that Document from import.meta.document.
package htmlmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"vimagination.zapto.org/htmlmodule/internal/keypath"
)

// Rewrite converts the given HTML document into a javascript module.
//
// A document without any module scripts is returned as a module that only
// exports the Document; otherwise the scripts and the Document are bundled by
// the configured Engine, which must produce exactly one output.
func Rewrite(ctx context.Context, source string, opts ...Option) (string, error) {
	c := config{
		log: zerolog.Nop(),
	}

	for _, o := range opts {
		o(&c)
	}

	if c.engine == nil {
		c.engine = Esbuild{Dir: c.dir}
	}

	scripts, err := Scripts(source)
	if err != nil {
		return "", err
	}

	wrapper := documentModule(source)

	if len(scripts) == 0 {
		c.log.Debug().Msg("no module scripts, skipping bundle")

		return wrapper, nil
	}

	if c.logMembers {
		c.logKeypaths(scripts)
	}

	g, err := buildGraph(scripts, wrapper)
	if err != nil {
		return "", err
	}

	start := time.Now()

	a, err := bundle(ctx, c.engine, g)
	if err != nil {
		return "", fmt.Errorf("error bundling document: %w", err)
	}

	c.log.Debug().
		Int("scripts", len(scripts)).
		Int("modules", len(g.sources)).
		Dur("duration", time.Since(start)).
		Msg("bundled html module")

	return a.Code, nil
}

// RewriteBytes is like Rewrite, but takes the document as a byte slice.
func RewriteBytes(ctx context.Context, source []byte, opts ...Option) (string, error) {
	return Rewrite(ctx, string(source), opts...)
}

func (c *config) logKeypaths(scripts []Script) {
	for n, s := range scripts {
		if !s.Inline() {
			continue
		}

		refs, err := keypath.Parse(s.Code)
		if err != nil {
			c.log.Debug().Err(err).Int("script", n).Msg("error parsing inline script")

			continue
		}

		for _, r := range refs {
			c.log.Debug().Int("script", n).Str("name", r.Name).Str("keypath", r.Keypath).Msg("got member")
		}
	}
}
