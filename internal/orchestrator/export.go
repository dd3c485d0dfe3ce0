package orchestrator

import (
	"context"
	"fmt"

	"github.com/psidex/simgraph/internal/matrix"
	"github.com/psidex/simgraph/internal/render"
)

// Export writes m to base.json and hands its projection to every renderer, which add
// their own extension to base.
func Export(ctx context.Context, m matrix.Matrix, base string, renderers ...render.MatrixRenderer) error {
	if err := matrix.Save(base+".json", m); err != nil {
		return fmt.Errorf("failed to save matrix: %w", err)
	}
	return Render(ctx, m, base, renderers...)
}

// Render draws an already saved matrix.
func Render(ctx context.Context, m matrix.Matrix, base string, renderers ...render.MatrixRenderer) error {
	t, err := matrix.Project(m)
	if err != nil {
		return err
	}
	for _, r := range renderers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RenderToFile(ctx, t, base); err != nil {
			return fmt.Errorf("failed to render %T: %w", r, err)
		}
	}
	return nil
}
