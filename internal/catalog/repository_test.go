package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parent-products/internal/catalog"
	"parent-products/internal/store"
)

func TestProductsByIDs_SelectsRequestedAttributes(t *testing.T) {
	s := testStore(t)
	insertProduct(t, s, 101, "SKU101", "", catalog.TypeConfigurable)
	insertProduct(t, s, 102, "SKU102", "Bundle 102", catalog.TypeBundle)
	insertProduct(t, s, 103, "SKU103", "Other", catalog.TypeSimple)

	repo := catalog.NewRepository(s.DB, s.Dialect)
	products, err := repo.ProductsByIDs(context.Background(), []int64{101, 102},
		[]string{catalog.AttrName, catalog.AttrSKU, catalog.AttrTypeID})
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := map[int64]*catalog.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Equal(t, "SKU101", byID[101].SKU)
	assert.Equal(t, "", byID[101].Name)
	assert.Equal(t, catalog.TypeConfigurable, byID[101].TypeID)
	assert.Equal(t, "Bundle 102", byID[102].Name)
	// thumbnail was not selected
	assert.Empty(t, byID[102].Thumbnail)
}

func TestProductsByIDs_ImageAttributes(t *testing.T) {
	s := testStore(t)
	insertProduct(t, s, 7, "SKU7", "Seven", catalog.TypeSimple)

	repo := catalog.NewRepository(s.DB, s.Dialect)
	products, err := repo.ProductsByIDs(context.Background(), []int64{7},
		[]string{catalog.AttrSmallImage, catalog.AttrThumbnail, catalog.AttrImage})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "/SKU7.jpg", products[0].Thumbnail)
	assert.Equal(t, "/SKU7.jpg", products[0].ImageFile(catalog.AttrThumbnail))
	assert.Empty(t, products[0].SKU)
}

func TestProductsByIDs_UnknownAttribute(t *testing.T) {
	s := testStore(t)
	repo := catalog.NewRepository(s.DB, s.Dialect)
	_, err := repo.ProductsByIDs(context.Background(), []int64{1}, []string{"price; DROP TABLE x"})
	require.Error(t, err)
}

func TestProductsByIDs_EmptyIDs(t *testing.T) {
	repo := catalog.NewRepository(nil, nil)
	products, err := repo.ProductsByIDs(context.Background(), nil, []string{catalog.AttrSKU})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductByID(t *testing.T) {
	s := testStore(t)
	insertProduct(t, s, 300, "SKU300", "Child", catalog.TypeSimple)
	repo := catalog.NewRepository(s.DB, s.Dialect)

	p, err := repo.ProductByID(context.Background(), 300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), p.ID)
	assert.Equal(t, "Child", p.Name)

	_, err = repo.ProductByID(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestParentIDLookups(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3, 10} {
		insertProduct(t, s, id, "SKU"+string(rune('A'+id)), "", catalog.TypeSimple)
	}
	_, err := store.Exec(ctx, s.DB, "INSERT INTO catalog_product_relation (parent_id, child_id) VALUES (1, 10), (2, 10)")
	require.NoError(t, err)
	_, err = store.Exec(ctx, s.DB, "INSERT INTO catalog_product_super_link (product_id, parent_id) VALUES (10, 3)")
	require.NoError(t, err)

	repo := catalog.NewRepository(s.DB, s.Dialect)

	rel, err := repo.ParentIDsByChild(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{int64(1), int64(2)}, rel)

	super, err := repo.ParentIDsBySuperLink(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3)}, super)

	none, err := repo.ParentIDsByChild(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContextLocator(t *testing.T) {
	var loc catalog.ContextLocator

	_, ok := loc.Product(context.Background())
	assert.False(t, ok)

	ctx := catalog.WithProduct(context.Background(), &catalog.Product{ID: 42})
	p, ok := loc.Product(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), p.ID)

	_, ok = loc.Product(catalog.WithProduct(context.Background(), nil))
	assert.False(t, ok)
}

func TestImageFile_NoSelection(t *testing.T) {
	p := &catalog.Product{Image: catalog.NoSelection, SmallImage: "/s.jpg"}
	assert.Empty(t, p.ImageFile(catalog.AttrImage))
	assert.Equal(t, "/s.jpg", p.ImageFile(catalog.AttrSmallImage))
	assert.Empty(t, p.ImageFile("unknown"))
}
