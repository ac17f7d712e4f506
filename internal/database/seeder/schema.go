package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alfred/internal/database"
)

var errSchemaMismatch = errors.New("schema mismatch")

// EnsureTableColumns fails when table lacks any of columns, naming every
// missing one so a half-applied migration is obvious.
func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return errors.New("nil db")
	}
	if strings.TrimSpace(table) == "" {
		return errors.New("empty table")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	present := make(map[string]struct{})
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return err
		}
		present[col] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range columns {
		if _, ok := present[col]; !ok {
			missing = append(missing, table+"."+col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", errSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
