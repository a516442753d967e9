package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/observability"
)

// WriteArtifacts writes each artifact to dir under its file name, creating
// dir if needed, and returns the written paths in order. The context is
// checked before every file so an interrupt stops the run before the next
// chart is written. Files already written stay on disk.
func WriteArtifacts(ctx context.Context, dir string, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", dir)
	}

	hooks := observability.Output()
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Image.PNG, 0o644); err != nil {
			hooks.OnWriteError(ctx, path, err)
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		hooks.OnWrite(ctx, path, len(a.Image.PNG))
		paths = append(paths, path)
	}
	return paths, nil
}
