package htmlmodule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	artifacts []Artifact
	err       error

	entry string
	hooks Hooks
}

func (f *fakeEngine) Build(_ context.Context, entry string, hooks Hooks) ([]Artifact, error) {
	f.entry = entry
	f.hooks = hooks

	return f.artifacts, f.err
}

const inlinePage = `<script type="module">console.log(1)</script>`

func TestRewriteOutputCount(t *testing.T) {
	for _, count := range [...]int{0, 2, 3} {
		e := &fakeEngine{artifacts: make([]Artifact, count)}

		for n := range e.artifacts {
			e.artifacts[n].Code = "chunk"
		}

		out, err := Rewrite(context.Background(), inlinePage, Bundler(e))

		assert.ErrorIs(t, err, ErrOutputCount, "count %d", count)
		assert.Empty(t, out)
	}
}

func TestRewriteSingleArtifact(t *testing.T) {
	e := &fakeEngine{artifacts: []Artifact{{Path: "out.js", Code: "bundled"}}}

	out, err := Rewrite(context.Background(), inlinePage, Bundler(e))
	require.NoError(t, err)
	assert.Equal(t, "bundled", out)

	src, ok := e.hooks.Load(e.entry)
	require.True(t, ok)
	assert.Contains(t, src, "export { default } from '\\x00virtual:0';")
	assert.Contains(t, src, "export * from '\\x00virtual:1';")

	code, ok := e.hooks.Load("\x00virtual:1")
	require.True(t, ok)
	assert.Equal(t, "console.log(1)", code)
	assert.False(t, e.hooks.Resolve("\x00virtual:1").External)
}

func TestRewriteEngineError(t *testing.T) {
	errEngine := errors.New("engine failure")
	e := &fakeEngine{err: errEngine}

	_, err := Rewrite(context.Background(), inlinePage, Bundler(e))
	assert.ErrorIs(t, err, errEngine)
}

func TestRewriteNoModulesSkipsEngine(t *testing.T) {
	const page = `<!DOCTYPE html><p>hi</p><script>classic()</script>`

	e := &fakeEngine{}

	out, err := Rewrite(context.Background(), page, Bundler(e), RewriteDocument)
	require.NoError(t, err)
	assert.Equal(t, documentModule(page), out)
	assert.Nil(t, e.hooks)
}

func TestRewriteBytes(t *testing.T) {
	out, err := RewriteBytes(context.Background(), []byte("<b>bytes</b>"))
	require.NoError(t, err)
	assert.Equal(t, documentModule("<b>bytes</b>"), out)
}

func TestRewriteDocumentInert(t *testing.T) {
	const page = `<script type="module" src="a.js"></script>`

	with := &fakeEngine{artifacts: []Artifact{{Code: "x"}}}
	without := &fakeEngine{artifacts: []Artifact{{Code: "x"}}}

	_, err := Rewrite(context.Background(), page, Bundler(with), RewriteDocument)
	require.NoError(t, err)

	_, err = Rewrite(context.Background(), page, Bundler(without))
	require.NoError(t, err)

	a, _ := with.hooks.Load(with.entry)
	b, _ := without.hooks.Load(without.entry)

	assert.Equal(t, a, b)
}
