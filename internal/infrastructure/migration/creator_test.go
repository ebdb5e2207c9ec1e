package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bizledger/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add expenses table", "add_expenses_table"},
		{"Add-Expenses-Table", "add_expenses_table"},
		{"ADD_EXPENSES_TABLE", "add_expenses_table"},
		{"add__expenses__table", "add_expenses_table"},
		{"Add Receipts 123", "add_receipts_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration is 000001", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "init schema", "Companies and users")
		require.NoError(t, err)
		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_init_schema.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Migration: init schema")
		assert.Contains(t, string(up), "Companies and users")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
	})

	t.Run("continues after the highest version", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_init.up.sql", "000001_init.down.sql",
			"000009_add_notes.up.sql", "000009_add_notes.down.sql",
			"000002_scoped.up.sql", "000002_scoped.down.sql",
		)

		mf, err := CreateMigration(dir, "add-receipt-key", "")
		require.NoError(t, err)
		assert.Equal(t, "000010", mf.Version)
		assert.True(t, strings.HasSuffix(mf.UpPath, "000010_add_receipt_key.up.sql"))
	})

	t.Run("creates the directory", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(nested, "test", "test migration")
		require.NoError(t, err)

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects a name without usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("ordered by version, ignoring other files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000010_late.up.sql", "000010_late.down.sql",
			"000002_add_users.up.sql", "000002_add_users.down.sql",
			"000001_init_schema.up.sql", "000001_init_schema.down.sql",
			"README.md", "notes.up.sql", ".gitkeep",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		got, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema", "000002_add_users", "000010_late"}, got)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		got, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		if base, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			ups[base] = true
		}
		if base, ok := strings.CutSuffix(e.Name(), ".down.sql"); ok {
			downs[base] = true
		}
	}
	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
	assert.True(t, ups["000002_company_scoped_numbers"])
}
