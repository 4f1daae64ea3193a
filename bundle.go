package htmlmodule

import (
	"context"
	"fmt"
)

// Resolution is the result of resolving an import specifier.
//
// External resolutions are left for the consumer of the bundle to import.
type Resolution struct {
	ID       string
	External bool
}

// Hooks serve the virtual module graph to an Engine.
type Hooks interface {
	Resolve(id string) Resolution
	Load(id string) (string, bool)
}

// Artifact is a single generated output file.
type Artifact struct {
	Path      string
	Code      string
	SourceMap string
}

// Engine bundles the module graph reachable from entry into one or more
// artifacts, resolving and loading every module through hooks.
type Engine interface {
	Build(ctx context.Context, entry string, hooks Hooks) ([]Artifact, error)
}

func bundle(ctx context.Context, e Engine, g graph) (Artifact, error) {
	artifacts, err := e.Build(ctx, g.entry, g.sources)
	if err != nil {
		return Artifact{}, err
	}

	if len(artifacts) != 1 {
		return Artifact{}, fmt.Errorf("%w: %d", ErrOutputCount, len(artifacts))
	}

	return artifacts[0], nil
}
