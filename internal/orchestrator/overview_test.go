package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	folder, truth := writeScenario(t)
	require.NoError(t, os.MkdirAll(filepath.Join(folder, "crashed"), 0o755))
	o := newTestOrchestrator(nil)

	_, err := o.EvaluatePairs(context.Background(), folder, truth)
	require.NoError(t, err)

	lines, err := o.Overview(folder)
	require.NoError(t, err)

	names := []string{}
	for _, line := range lines {
		names = append(names, line.Name)
	}
	assert.Equal(t, []string{"hashB", "hashA", "hashC", "crashed"}, names)
	assert.Equal(t, -1.0, lines[3].Rank)
	assert.True(t, strings.HasSuffix(lines[3].Text, "\tNO RESULT / ERROR"))

	fields := strings.Split(lines[0].Text, "\t")
	require.Len(t, fields, 4)
	assert.Len(t, fields[0], 95)
	assert.Equal(t, "hashB", strings.TrimSpace(fields[0]))
	assert.Equal(t, "TRUE_POSITIVE = 1.0", strings.TrimSpace(fields[1]))
	assert.Equal(t, "PRE_COMPUTING = 0.25", strings.TrimSpace(fields[2]))
	assert.Equal(t, "MATCHING = 0.5", strings.TrimSpace(fields[3]))
}

func TestWriteOverview(t *testing.T) {
	folder, _ := writeScenario(t)
	buf := &bytes.Buffer{}

	require.NoError(t, newTestOrchestrator(nil).WriteOverview(folder, buf))

	// No set has been evaluated yet.
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "\r\n"))
	assert.Equal(t, 3, strings.Count(out, "NO RESULT / ERROR"))
}

func TestOverview_MissingFolder(t *testing.T) {
	_, err := newTestOrchestrator(nil).Overview(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
