package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SQLiteDialect implements Dialect for SQLite via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string      { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) Placeholder(index int) string {
	return fmt.Sprintf("?%d", index)
}

func (d *SQLiteDialect) NewParamBuilder() ParamBuilder {
	return &sqliteParamBuilder{}
}

func (d *SQLiteDialect) SchemaSQL() string {
	return sqliteSchemaSQL
}

func (d *SQLiteDialect) InExpr(field string, pb ParamBuilder, values []any) string {
	if len(values) == 0 {
		return "1=0" // always false
	}
	phs := make([]string, len(values))
	for i, v := range values {
		phs[i] = pb.Add(v)
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(phs, ", "))
}

func (d *SQLiteDialect) ArrayParam(values []string) any {
	if values == nil {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

func (d *SQLiteDialect) ScanArray(src any) ([]string, error) {
	if src == nil {
		return []string{}, nil
	}
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return []string{}, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return []string{}, nil
	}
	var result []string
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return []string{}, fmt.Errorf("scan array: %w", err)
	}
	return result, nil
}

// --- SQLite DDL ---

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS catalog_product_entity (
    entity_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    sku         TEXT NOT NULL UNIQUE,
    type_id     TEXT NOT NULL DEFAULT 'simple',
    name        TEXT NOT NULL DEFAULT '',
    image       TEXT,
    small_image TEXT,
    thumbnail   TEXT,
    created_at  TEXT DEFAULT (datetime('now')),
    updated_at  TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS catalog_product_relation (
    parent_id INTEGER NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    child_id  INTEGER NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    PRIMARY KEY (parent_id, child_id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_product_relation_child ON catalog_product_relation(child_id);

CREATE TABLE IF NOT EXISTS catalog_product_super_link (
    link_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id INTEGER NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    parent_id  INTEGER NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    UNIQUE (product_id, parent_id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_product_super_link_parent ON catalog_product_super_link(parent_id);

CREATE TABLE IF NOT EXISTS core_config_data (
    config_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    scope      TEXT NOT NULL DEFAULT 'default',
    scope_id   INTEGER NOT NULL DEFAULT 0,
    path       TEXT NOT NULL,
    value      TEXT,
    updated_at TEXT DEFAULT (datetime('now')),
    UNIQUE (scope, scope_id, path)
);

CREATE TABLE IF NOT EXISTS admin_user (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    roles         TEXT DEFAULT '[]',
    active        INTEGER DEFAULT 1,
    created_at    TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS admin_refresh_token (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES admin_user(id) ON DELETE CASCADE,
    token      TEXT NOT NULL UNIQUE,
    expires_at TIMESTAMP NOT NULL,
    created_at TEXT DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_admin_refresh_token_token ON admin_refresh_token(token);
`
