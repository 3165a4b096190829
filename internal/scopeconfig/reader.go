// Package scopeconfig reads store-scoped settings from core_config_data.
package scopeconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"parent-products/internal/store"
)

// Scope is the level a configuration value is read at.
type Scope string

const (
	ScopeDefault Scope = "default"
	ScopeWebsite Scope = "website"
	ScopeStore   Scope = "store"
)

// table scope codes
const (
	scopeDefaultRow  = "default"
	scopeWebsitesRow = "websites"
	scopeStoresRow   = "stores"
)

type scopeRow struct {
	scope string
	id    int64
}

// Reader resolves a config path for the current store, falling back from
// store to website to default rows and finally to the configured defaults.
type Reader struct {
	db        store.Querier
	dialect   store.Dialect
	storeID   int64
	websiteID int64
	defaults  map[string]any
}

func NewReader(db store.Querier, dialect store.Dialect, storeID, websiteID int64, defaults map[string]any) *Reader {
	d := make(map[string]any, len(defaults))
	for k, v := range defaults {
		d[strings.ToLower(k)] = v
	}
	return &Reader{db: db, dialect: dialect, storeID: storeID, websiteID: websiteID, defaults: d}
}

// Value returns the raw value for path at the given scope.
func (r *Reader) Value(ctx context.Context, path string, scope Scope) (string, bool) {
	for _, sr := range r.chain(scope) {
		v, err := r.lookup(ctx, path, sr)
		if err == nil {
			return v, true
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.WithField("path", path).Warnf("config lookup failed: %v", err)
			break
		}
	}
	if v, ok := r.defaults[strings.ToLower(path)]; ok {
		return cast.ToString(v), true
	}
	return "", false
}

// IsSetFlag reports whether the value at path is truthy.
func (r *Reader) IsSetFlag(ctx context.Context, path string, scope Scope) bool {
	v, ok := r.Value(ctx, path, scope)
	if !ok {
		return false
	}
	return cast.ToBool(strings.TrimSpace(v))
}

func (r *Reader) chain(scope Scope) []scopeRow {
	switch scope {
	case ScopeStore:
		return []scopeRow{{scopeStoresRow, r.storeID}, {scopeWebsitesRow, r.websiteID}, {scopeDefaultRow, 0}}
	case ScopeWebsite:
		return []scopeRow{{scopeWebsitesRow, r.websiteID}, {scopeDefaultRow, 0}}
	default:
		return []scopeRow{{scopeDefaultRow, 0}}
	}
}

func (r *Reader) lookup(ctx context.Context, path string, sr scopeRow) (string, error) {
	if r.db == nil {
		return "", store.ErrNotFound
	}
	pb := r.dialect.NewParamBuilder()
	sql := fmt.Sprintf("SELECT value FROM core_config_data WHERE scope = %s AND scope_id = %s AND path = %s",
		pb.Add(sr.scope), pb.Add(sr.id), pb.Add(path))
	row, err := store.QueryRow(ctx, r.db, sql, pb.Params()...)
	if err != nil {
		return "", err
	}
	return cast.ToString(row["value"]), nil
}
