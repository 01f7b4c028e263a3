package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/internal/types"
)

var _ types.ColumnStore = (*FileStore)(nil)
var _ types.ColumnStore = (*PostgresStore)(nil)

func exerciseStore(t *testing.T, s types.ColumnStore) {
	ctx := context.Background()

	cols, err := s.Columns(ctx)
	require.NoError(t, err)
	require.Empty(t, cols)

	name, err := s.AddColumn(ctx, " Name ", "the course title")
	require.NoError(t, err)
	assert.NotEmpty(t, name.ID)
	assert.Equal(t, "Name", name.Name)

	duration, err := s.AddColumn(ctx, "Duration", "total hours")
	require.NoError(t, err)
	assert.NotEqual(t, name.ID, duration.ID)

	cols, err = s.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Column{name, duration}, cols)

	require.NoError(t, s.UpdateColumn(ctx, models.Column{
		ID:             name.ID,
		Name:           "  Name\t",
		ExtractionRule: " the full course title \n",
	}))
	name.ExtractionRule = "the full course title"
	cols, err = s.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, name, cols[0], "update trims like add")
	assert.ErrorIs(t, s.UpdateColumn(ctx, models.Column{ID: "missing"}), ErrColumnNotFound)

	require.NoError(t, s.DeleteColumn(ctx, duration.ID))
	assert.ErrorIs(t, s.DeleteColumn(ctx, duration.ID), ErrColumnNotFound)

	cols, err = s.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Column{name}, cols)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "columns.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	exerciseStore(t, s)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	cols, err := reopened.Columns(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "the full course title", cols[0].ExtractionRule)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreColumnsReturnsCopy(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "columns.json"))
	require.NoError(t, err)
	_, err = s.AddColumn(context.Background(), "Name", "rule")
	require.NoError(t, err)

	cols, _ := s.Columns(context.Background())
	cols[0].Name = "changed"

	again, _ := s.Columns(context.Background())
	assert.Equal(t, "Name", again[0].Name)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/columnar", DefaultDir())
}

func TestPostgresStore(t *testing.T) {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, PostgresStoreConfig{
		ConnString: connString,
		TableName:  "test_columns",
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.pool.Exec(ctx, "TRUNCATE test_columns")
	require.NoError(t, err)

	exerciseStore(t, s)
}

func TestPostgresStoreRejectsTableName(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), PostgresStoreConfig{TableName: "columns; DROP TABLE x"})
	assert.ErrorContains(t, err, "invalid table name")
}
