package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	tpl, ok := c.Task("read_30")
	require.True(t, ok)
	assert.Equal(t, 3, tpl.ResolvedDifficulty())

	_, ok = c.Task("missing")
	assert.False(t, ok)
}

func TestTask_ReturnsCopy(t *testing.T) {
	c := Default()
	tpl, _ := c.Task("read_30")
	tpl.Tags[0] = "changed"

	again, _ := c.Task("read_30")
	assert.Equal(t, "reading", again.Tags[0])
}

func TestLoadFile_OverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := `
tasks:
  - id: pushups
    title: 20 pushups
    category: fitness
    subtype: strength
    tier: hard
    minutes: 10
    repeatable: true
    tags: [morning]
    effect:
      life: 2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, c.Tasks, 1)
	assert.Equal(t, 4, c.Tasks[0].ResolvedDifficulty())
	assert.Equal(t, 2, c.Tasks[0].Effect.Life)
	assert.NotEmpty(t, c.Achievements, "untouched sections keep defaults")
	assert.NotEmpty(t, c.Events)
}

func TestLoadFile_RejectsBadTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks:\n  - id: x\n    title: X\n    tier: legendary\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
