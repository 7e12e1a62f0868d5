package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gofinances/internal/core"
	applog "gofinances/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores categories and transactions in one SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite free of "database is locked" errors.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM categories ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FindCategoryByTitle matches titles case-insensitively.
func (r *SQLiteRepository) FindCategoryByTitle(ctx context.Context, title string) (core.Category, bool, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title FROM categories WHERE title = ? COLLATE NOCASE LIMIT 1`,
		strings.TrimSpace(title),
	).Scan(&c.ID, &c.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, false, nil
	}
	if err != nil {
		return core.Category{}, false, fmt.Errorf("find category %q: %w", title, err)
	}
	return c, true, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO categories (id, title) VALUES (?, ?)`, c.ID, c.Title); err != nil {
		return fmt.Errorf("create category %q: %w", c.Title, err)
	}
	r.logger.InfoContext(ctx, "Category saved to SQLite", "id", c.ID, applog.FieldCategory, c.Title)
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, title, value, type, category_id) VALUES (?, ?, ?, ?, ?)`,
		tx.ID, tx.Title, tx.Value.String(), string(tx.Type), tx.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	r.logger.InfoContext(ctx, "Transaction saved to SQLite",
		applog.FieldTransactionID, tx.ID,
		applog.FieldTitle, tx.Title,
		applog.FieldValue, tx.Value.String(),
		applog.FieldType, string(tx.Type))
	return nil
}

// ListTransactions returns every transaction with its category, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.value, t.type, t.category_id, c.id, c.title
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		ORDER BY t.created_at, t.rowid`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx     core.Transaction
			txType string
		)
		if err := rows.Scan(&tx.ID, &tx.Title, &tx.Value, &txType, &tx.CategoryID, &tx.Category.ID, &tx.Category.Title); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TransactionType(txType)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// DeleteTransaction returns core.ErrTransactionNotFound for unknown ids.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n == 0 {
		return core.ErrTransactionNotFound
	}
	r.logger.InfoContext(ctx, "Transaction deleted from SQLite", applog.FieldTransactionID, id)
	return nil
}

// SeedCategories inserts the given titles that are not stored yet.
func (r *SQLiteRepository) SeedCategories(ctx context.Context, categories []core.Category) error {
	for _, c := range categories {
		_, found, err := r.FindCategoryByTitle(ctx, c.Title)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		if err := r.CreateCategory(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
