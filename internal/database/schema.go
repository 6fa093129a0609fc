package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Questions carry no foreign key: a category may be missing and the API
// still serves the question.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		type TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id SERIAL PRIMARY KEY,
		question TEXT,
		answer TEXT,
		category INTEGER,
		difficulty INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category)`,
}

// Migrate creates the trivia tables and seeds the default categories into
// an empty category table
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count == 0 {
		if err := seedCategories(ctx, tx, domain.DefaultCategories); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func seedCategories(ctx context.Context, tx pgx.Tx, categories []domain.Category) error {
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`INSERT INTO categories (id, type) VALUES ($1, $2)`, c.ID, c.Type)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	// keep SERIAL ahead of the explicit ids
	if _, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories))`,
	); err != nil {
		return fmt.Errorf("failed to advance category sequence: %w", err)
	}
	return nil
}
