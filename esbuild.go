package htmlmodule

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
)

const (
	namespace  = "htmlmodule"
	outputFile = "htmlmodule.js"
)

// Esbuild is an Engine that bundles with esbuild.
//
// Tree shaking is disabled so every module keeps its side effects and
// relative order, and an external source map is generated alongside the code.
type Esbuild struct {
	// Dir is the absolute working directory for the build; if empty, the
	// current directory is used.
	Dir string
}

// Build implements the Engine interface.
func (e Esbuild) Build(ctx context.Context, entry string, hooks Hooks) ([]Artifact, error) {
	vp := &virtualPlugin{hooks: hooks}

	bctx, cerr := api.Context(api.BuildOptions{
		EntryPoints:   []string{entry},
		Bundle:        true,
		Write:         false,
		Format:        api.FormatESModule,
		Platform:      api.PlatformBrowser,
		Target:        api.ESNext,
		Sourcemap:     api.SourceMapExternal,
		TreeShaking:   api.TreeShakingFalse,
		LogLevel:      api.LogLevelSilent,
		Outfile:       outputFile,
		AbsWorkingDir: e.Dir,
		Plugins:       []api.Plugin{vp.plugin()},
	})
	if cerr != nil {
		return nil, fmt.Errorf("%w: %s", ErrBuild, messages(cerr.Errors))
	}

	defer bctx.Dispose()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			bctx.Cancel()
		case <-done:
		}
	}()

	result := bctx.Rebuild()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := vp.failure(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBuild, messages(result.Errors))
	}

	return artifacts(result.OutputFiles), nil
}

// virtualPlugin serves resolved virtual modules from the htmlmodule
// namespace and marks everything else external.
type virtualPlugin struct {
	hooks Hooks
	ids   sync.Map

	mu  sync.Mutex
	err error
}

func (v *virtualPlugin) fail(err error) error {
	v.mu.Lock()
	if v.err == nil {
		v.err = err
	}
	v.mu.Unlock()

	return err
}

func (v *virtualPlugin) failure() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.err
}

func (v *virtualPlugin) plugin() api.Plugin {
	return api.Plugin{
		Name: namespace,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`}, v.resolve)
			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: namespace}, v.load)
		},
	}
}

func (v *virtualPlugin) resolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	r := v.hooks.Resolve(args.Path)
	if r.External {
		return api.OnResolveResult{
			Path:     r.ID,
			External: true,
		}, nil
	}

	path := strings.ReplaceAll(r.ID, "\x00", "")

	v.ids.Store(path, r.ID)

	return api.OnResolveResult{
		Path:      path,
		Namespace: namespace,
	}, nil
}

func (v *virtualPlugin) load(args api.OnLoadArgs) (api.OnLoadResult, error) {
	id, ok := v.ids.Load(args.Path)
	if !ok {
		return api.OnLoadResult{}, v.fail(fmt.Errorf("%w: %s", ErrNotVirtual, args.Path))
	}

	src, ok := v.hooks.Load(id.(string))
	if !ok {
		return api.OnLoadResult{}, v.fail(fmt.Errorf("%w: %s", ErrNotVirtual, args.Path))
	}

	return api.OnLoadResult{
		Contents: &src,
		Loader:   api.LoaderJS,
	}, nil
}

func artifacts(files []api.OutputFile) []Artifact {
	maps := make(map[string]string)

	for _, f := range files {
		if filepath.Ext(f.Path) == ".map" {
			maps[strings.TrimSuffix(f.Path, ".map")] = string(f.Contents)
		}
	}

	var as []Artifact

	for _, f := range files {
		if filepath.Ext(f.Path) == ".map" {
			continue
		}

		as = append(as, Artifact{
			Path:      f.Path,
			Code:      string(f.Contents),
			SourceMap: maps[f.Path],
		})
	}

	return as
}

func messages(msgs []api.Message) string {
	texts := make([]string, 0, len(msgs))

	for _, m := range msgs {
		if m.Location != nil {
			texts = append(texts, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
		} else {
			texts = append(texts, m.Text)
		}
	}

	return strings.Join(texts, "; ")
}
