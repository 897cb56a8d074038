package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Batch Index", "speeds up status probes")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_batch_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, mf.Version+"_add_batch_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add Batch Index: speeds up status probes")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "revert")
}

func TestCreateMigration_RejectsEmptySlug(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "***", "")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "create_products", slugify("Create Products"))
	assert.Equal(t, "drop_old_aisle_column", slugify("drop old-aisle column!"))
	assert.Equal(t, "v2_schema", slugify("  v2   schema  "))
	assert.Equal(t, "", slugify("---"))
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"000002_create_locations.up.sql",
		"000002_create_locations.down.sql",
		"000001_create_products.up.sql",
		"000001_create_products.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_products", "000002_create_locations"}, names)
}

func TestListMigrations_MissingDir(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
