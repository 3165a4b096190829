package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for PostgreSQL via pgx/stdlib.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string      { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) NewParamBuilder() ParamBuilder {
	return &pgParamBuilder{}
}

func (d *PostgresDialect) SchemaSQL() string {
	return pgSchemaSQL
}

func (d *PostgresDialect) InExpr(field string, pb ParamBuilder, values []any) string {
	ph := pb.Add(typedArray(values))
	return fmt.Sprintf("%s = ANY(%s)", field, ph)
}

func (d *PostgresDialect) ArrayParam(values []string) any {
	return values
}

func (d *PostgresDialect) ScanArray(src any) ([]string, error) {
	if src == nil {
		return []string{}, nil
	}
	switch v := src.(type) {
	case []string:
		return v, nil
	case []any:
		result := make([]string, len(v))
		for i, item := range v {
			result[i] = fmt.Sprintf("%v", item)
		}
		return result, nil
	case []byte:
		// pgx/stdlib may return TEXT[] as a string like {admin,catalog}
		return parsePgArray(string(v))
	case string:
		return parsePgArray(v)
	default:
		return []string{}, nil
	}
}

// typedArray narrows a homogeneous []any to []int64 or []string so pgx can
// encode it as a BIGINT[] or TEXT[] parameter.
func typedArray(values []any) any {
	ints := make([]int64, 0, len(values))
	for _, v := range values {
		n, ok := v.(int64)
		if !ok {
			break
		}
		ints = append(ints, n)
	}
	if len(ints) == len(values) {
		return ints
	}
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%v", v)
	}
	return strs
}

// parsePgArray parses a PostgreSQL array literal like {admin,catalog} into []string.
func parsePgArray(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "{}" {
		return []string{}, nil
	}
	if strings.HasPrefix(s, "[") {
		var result []string
		if err := json.Unmarshal([]byte(s), &result); err == nil {
			return result, nil
		}
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := s[1 : len(s)-1]
		if inner == "" {
			return []string{}, nil
		}
		parts := strings.Split(inner, ",")
		result := make([]string, len(parts))
		for i, p := range parts {
			result[i] = strings.Trim(strings.TrimSpace(p), `"`)
		}
		return result, nil
	}
	return []string{s}, nil
}

// --- PostgreSQL DDL ---

const pgSchemaSQL = `
CREATE TABLE IF NOT EXISTS catalog_product_entity (
    entity_id   BIGSERIAL PRIMARY KEY,
    sku         TEXT NOT NULL UNIQUE,
    type_id     TEXT NOT NULL DEFAULT 'simple',
    name        TEXT NOT NULL DEFAULT '',
    image       TEXT,
    small_image TEXT,
    thumbnail   TEXT,
    created_at  TIMESTAMPTZ DEFAULT NOW(),
    updated_at  TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalog_product_relation (
    parent_id BIGINT NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    child_id  BIGINT NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    PRIMARY KEY (parent_id, child_id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_product_relation_child ON catalog_product_relation(child_id);

CREATE TABLE IF NOT EXISTS catalog_product_super_link (
    link_id    BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    parent_id  BIGINT NOT NULL REFERENCES catalog_product_entity(entity_id) ON DELETE CASCADE,
    UNIQUE (product_id, parent_id)
);
CREATE INDEX IF NOT EXISTS idx_catalog_product_super_link_parent ON catalog_product_super_link(parent_id);

CREATE TABLE IF NOT EXISTS core_config_data (
    config_id  BIGSERIAL PRIMARY KEY,
    scope      TEXT NOT NULL DEFAULT 'default',
    scope_id   BIGINT NOT NULL DEFAULT 0,
    path       TEXT NOT NULL,
    value      TEXT,
    updated_at TIMESTAMPTZ DEFAULT NOW(),
    UNIQUE (scope, scope_id, path)
);

CREATE TABLE IF NOT EXISTS admin_user (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    roles         TEXT[] DEFAULT '{}',
    active        BOOLEAN DEFAULT true,
    created_at    TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS admin_refresh_token (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id    UUID NOT NULL REFERENCES admin_user(id) ON DELETE CASCADE,
    token      TEXT NOT NULL UNIQUE,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_admin_refresh_token_token ON admin_refresh_token(token);
`
