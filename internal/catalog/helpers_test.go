package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"parent-products/internal/config"
	"parent-products/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Path:   t.TempDir(),
		Name:   "catalog",
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Bootstrap(ctx))
	return s
}

func insertProduct(t *testing.T, s *store.Store, id int64, sku, name, typeID string) {
	t.Helper()
	_, err := store.Exec(context.Background(), s.DB,
		"INSERT INTO catalog_product_entity (entity_id, sku, name, type_id, thumbnail) VALUES (?1, ?2, ?3, ?4, ?5)",
		id, sku, name, typeID, fmt.Sprintf("/%s.jpg", sku))
	require.NoError(t, err)
}
