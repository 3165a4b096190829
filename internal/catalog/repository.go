package catalog

import (
	"context"
	"fmt"
	"strings"

	"parent-products/internal/store"
)

const (
	productTable   = "catalog_product_entity"
	relationTable  = "catalog_product_relation"
	superLinkTable = "catalog_product_super_link"
)

// selectable maps attribute codes to their columns.
var selectable = map[string]bool{
	AttrSKU:        true,
	AttrName:       true,
	AttrTypeID:     true,
	AttrImage:      true,
	AttrSmallImage: true,
	AttrThumbnail:  true,
}

// Repository reads products and product links from the catalog tables.
type Repository struct {
	db      store.Querier
	dialect store.Dialect
}

func NewRepository(db store.Querier, dialect store.Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

// ProductsByIDs loads the products whose entity_id is in ids, reading only the
// requested attributes. Rows come back in the order the database returns them.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []int64, attributes []string) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	columns, err := selectColumns(attributes)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	pb := r.dialect.NewParamBuilder()
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		columns, productTable, r.dialect.InExpr("entity_id", pb, values))

	rows, err := store.QueryRows(ctx, r.db, sql, pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	products := make([]*Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}
	return products, nil
}

// ProductByID loads a single product with its display attributes.
func (r *Repository) ProductByID(ctx context.Context, id int64) (*Product, error) {
	sql := fmt.Sprintf("SELECT entity_id, sku, name, type_id FROM %s WHERE entity_id = %s",
		productTable, r.dialect.Placeholder(1))
	row, err := store.QueryRow(ctx, r.db, sql, id)
	if err != nil {
		return nil, err
	}
	return productFromRow(row), nil
}

// ParentIDsByChild returns parent_id values from the relation table for the given child.
func (r *Repository) ParentIDsByChild(ctx context.Context, childID int64) ([]any, error) {
	sql := fmt.Sprintf("SELECT parent_id FROM %s WHERE child_id = %s",
		relationTable, r.dialect.Placeholder(1))
	ids, err := store.QueryColumn(ctx, r.db, sql, childID)
	if err != nil {
		return nil, fmt.Errorf("load relation parents: %w", err)
	}
	return ids, nil
}

// ParentIDsBySuperLink returns parent_id values from the super-link table for the given variation.
func (r *Repository) ParentIDsBySuperLink(ctx context.Context, productID int64) ([]any, error) {
	sql := fmt.Sprintf("SELECT parent_id FROM %s WHERE product_id = %s",
		superLinkTable, r.dialect.Placeholder(1))
	ids, err := store.QueryColumn(ctx, r.db, sql, productID)
	if err != nil {
		return nil, fmt.Errorf("load super-link parents: %w", err)
	}
	return ids, nil
}

func selectColumns(attributes []string) (string, error) {
	cols := []string{"entity_id"}
	seen := map[string]bool{"entity_id": true}
	for _, a := range attributes {
		if !selectable[a] {
			return "", fmt.Errorf("unknown product attribute: %s", a)
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		cols = append(cols, a)
	}
	return strings.Join(cols, ", "), nil
}
