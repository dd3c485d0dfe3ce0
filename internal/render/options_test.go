package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/simgraph/internal/lib"
)

func TestMatrixRenderers(t *testing.T) {
	logger := lib.DiscardLogger()

	renderers, err := DefaultOptions().MatrixRenderers(logger)
	require.NoError(t, err)
	require.Len(t, renderers, 2)
	assert.IsType(t, HTMLHeatMap{}, renderers[0])
	assert.IsType(t, PNGHeatMap{}, renderers[1])

	o := DefaultOptions()
	o.PNGEngine = EngineChrome
	renderers, err = o.MatrixRenderers(logger)
	require.NoError(t, err)
	require.Len(t, renderers, 1)
	chrome, ok := renderers[0].(ChromeHeatMap)
	require.True(t, ok)
	assert.Equal(t, o.ChromeTimeout.Duration, chrome.Timeout)

	o = DefaultOptions()
	o.PNG = false
	renderers, err = o.MatrixRenderers(logger)
	require.NoError(t, err)
	assert.Len(t, renderers, 1)

	o.HTML = false
	renderers, err = o.MatrixRenderers(logger)
	require.NoError(t, err)
	assert.Empty(t, renderers)
}

func TestMatrixRenderers_Invalid(t *testing.T) {
	logger := lib.DiscardLogger()

	o := DefaultOptions()
	o.PNGEngine = "gpu"
	_, err := o.MatrixRenderers(logger)
	assert.ErrorContains(t, err, "png_engine")

	o = DefaultOptions()
	o.Palette = "nope"
	_, err = o.MatrixRenderers(logger)
	assert.Error(t, err)

	o = DefaultOptions()
	o.CellSize = 0
	_, err = o.MatrixRenderers(logger)
	assert.ErrorContains(t, err, "cell_size")
}
