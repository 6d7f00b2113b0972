package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RunMigrations применяет не выполненные ещё SQL-миграции из каталога dir.
// Имя файла: NNNN_название.sql; каждая миграция идёт в своей транзакции
// вместе с записью в таблицу migrations.
func RunMigrations(db *pgxpool.Pool, dir string, logger *zap.Logger) error {
	ctx := context.Background()

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("создание таблицы миграций: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		version, name, ok := parseMigrationName(file)
		if !ok {
			logger.Warn("файл миграции с неожиданным именем пропущен", zap.String("file", file))
			continue
		}
		if applied[version] {
			continue
		}

		if err := applyMigration(ctx, db, dir, file, version, name); err != nil {
			return err
		}
		logger.Info("миграция применена", zap.String("version", version), zap.String("name", name))
	}

	return nil
}

func appliedVersions(ctx context.Context, db *pgxpool.Pool) (map[string]bool, error) {
	rows, err := db.Query(ctx, "SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("чтение выполненных миграций: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("чтение выполненных миграций: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("чтение каталога миграций: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func parseMigrationName(file string) (version, name string, ok bool) {
	parts := strings.SplitN(file, "_", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".sql"), true
}

func applyMigration(ctx context.Context, db *pgxpool.Pool, dir, file, version, name string) error {
	content, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("чтение миграции %s: %w", file, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("выполнение миграции %s: %w", file, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO migrations (version, name, applied_at) VALUES ($1, $2, $3)",
		version, name, time.Now(),
	); err != nil {
		return fmt.Errorf("фиксация миграции %s: %w", file, err)
	}

	return tx.Commit(ctx)
}
