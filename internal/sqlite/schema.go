package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// errSchemaAhead reports a database stamped with a newer schema version than
// the one requested. Downgrades are refused.
var errSchemaAhead = errors.New("stored schema version is newer than requested")

// Collection DDL. The data column holds the JSON document; id mirrors the
// document's id field.
const (
	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`

	createNotebooks = `CREATE TABLE IF NOT EXISTS notebooks (
    id TEXT PRIMARY KEY,
    data TEXT NOT NULL
);`
)

// Secondary index DDL. All indexes are non-unique. The indexed expression
// must match indexExpr exactly for lookups to use the index.
const (
	idxTasksColumnID      = `CREATE INDEX IF NOT EXISTS idx_tasks_column_id ON tasks(json_extract(data, '$.column_id'));`
	idxTasksStatus        = `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(json_extract(data, '$.status'));`
	idxTasksUserEmail     = `CREATE INDEX IF NOT EXISTS idx_tasks_user_email ON tasks(json_extract(data, '$.user_email'));`
	idxNotebooksCreatedAt = `CREATE INDEX IF NOT EXISTS idx_notebooks_created_at ON notebooks(json_extract(data, '$.created_at'));`
	idxNotebooksUserEmail = `CREATE INDEX IF NOT EXISTS idx_notebooks_user_email ON notebooks(json_extract(data, '$.user_email'));`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createTasks,
	createNotebooks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksColumnID,
	idxTasksStatus,
	idxTasksUserEmail,
	idxNotebooksCreatedAt,
	idxNotebooksUserEmail,
}

// indexExpr returns the SQL expression an index on field covers.
func indexExpr(field string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", field)
}

// indexName returns the SQLite name of the index on collection.field.
func indexName(collection, field string) string {
	return "idx_" + collection + "_" + field
}

// schemaVersion reads the version stamped in the database header.
func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// upgradeSchema brings the database up to target. When the stored version
// is behind, every collection and index is created if missing and the new
// version is stamped, all in one transaction. It returns the version found
// before the upgrade.
func upgradeSchema(ctx context.Context, db *sql.DB, target int) (int, error) {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current > target {
		return current, fmt.Errorf("%w: %d > %d", errSchemaAhead, current, target)
	}
	if current == target {
		return current, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return current, fmt.Errorf("begin upgrade: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return current, fmt.Errorf("create collection: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return current, fmt.Errorf("create index: %w", err)
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return current, fmt.Errorf("stamp schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return current, fmt.Errorf("commit upgrade: %w", err)
	}
	return current, nil
}
