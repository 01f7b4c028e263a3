package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xhad/columnar/internal/models"
)

type PostgresStoreConfig struct {
	ConnString string
	TableName  string
}

// PostgresStore keeps columns in a PostgreSQL table ordered by position.
type PostgresStore struct {
	config PostgresStoreConfig
	pool   *pgxpool.Pool
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func NewPostgresStore(ctx context.Context, config PostgresStoreConfig) (*PostgresStore, error) {
	if config.TableName == "" {
		config.TableName = "columns"
	}
	if !tableNamePattern.MatchString(config.TableName) {
		return nil, fmt.Errorf("invalid table name %q", config.TableName)
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{
		config: config,
		pool:   pool,
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position BIGSERIAL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			extraction_rule TEXT NOT NULL DEFAULT ''
		)`, s.config.TableName)

	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Columns(ctx context.Context) ([]models.Column, error) {
	query := fmt.Sprintf(`SELECT id, name, extraction_rule FROM %s ORDER BY position`, s.config.TableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	cols := []models.Column{}
	for rows.Next() {
		var col models.Column
		if err := rows.Scan(&col.ID, &col.Name, &col.ExtractionRule); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (s *PostgresStore) AddColumn(ctx context.Context, name, rule string) (models.Column, error) {
	col := newColumn(name, rule)
	stmt := fmt.Sprintf(`INSERT INTO %s (id, name, extraction_rule) VALUES ($1, $2, $3)`, s.config.TableName)

	if _, err := s.pool.Exec(ctx, stmt, col.ID, col.Name, col.ExtractionRule); err != nil {
		return models.Column{}, fmt.Errorf("failed to insert column: %w", err)
	}
	return col, nil
}

func (s *PostgresStore) UpdateColumn(ctx context.Context, col models.Column) error {
	col = normalize(col)
	stmt := fmt.Sprintf(`UPDATE %s SET name = $2, extraction_rule = $3 WHERE id = $1`, s.config.TableName)

	tag, err := s.pool.Exec(ctx, stmt, col.ID, col.Name, col.ExtractionRule)
	if err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteColumn(ctx context.Context, id string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.config.TableName)

	tag, err := s.pool.Exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
