// Package parents finds the parent products that reference a given child
// product through relation or super-link tables.
package parents

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"parent-products/internal/catalog"
)

// EditRoute is the admin route that opens the product editor.
const EditRoute = "catalog/product/edit"

// Row is one parent product as shown in the product-edit grid.
type Row struct {
	ID           int64  `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	LinkType     string `json:"link_type"`
	EditURL      string `json:"edit_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// RelationReader reads parent ids from the product link tables.
type RelationReader interface {
	ParentIDsByChild(ctx context.Context, childID int64) ([]any, error)
	ParentIDsBySuperLink(ctx context.Context, productID int64) ([]any, error)
}

// ProductReader loads catalog records by id.
type ProductReader interface {
	ProductsByIDs(ctx context.Context, ids []int64, attributes []string) ([]*catalog.Product, error)
}

// URLBuilder builds admin URLs.
type URLBuilder interface {
	GetURL(route string, params map[string]any) string
}

var displayAttributes = []string{catalog.AttrName, catalog.AttrSKU, catalog.AttrTypeID}

type Provider struct {
	relations RelationReader
	products  ProductReader
	urls      URLBuilder
}

func NewProvider(relations RelationReader, products ProductReader, urls URLBuilder) *Provider {
	return &Provider{relations: relations, products: products, urls: urls}
}

// GetParentProducts returns the parents of productID. The super-link table is
// only consulted when the relation table has no rows for the product. Lookup
// failures degrade to an empty result.
func (p *Provider) GetParentProducts(ctx context.Context, productID int64) []Row {
	if productID <= 0 {
		return nil
	}

	source := "relation"
	raw, err := p.relations.ParentIDsByChild(ctx, productID)
	if err != nil {
		p.lookupFailed(productID, err)
		return nil
	}
	if len(raw) == 0 {
		source = "super_link"
		raw, err = p.relations.ParentIDsBySuperLink(ctx, productID)
		if err != nil {
			p.lookupFailed(productID, err)
			return nil
		}
	}

	ids := uniqueIDs(raw)
	if len(ids) == 0 {
		parentLookups.WithLabelValues("none").Inc()
		return nil
	}
	parentLookups.WithLabelValues(source).Inc()

	parents, err := p.products.ProductsByIDs(ctx, ids, displayAttributes)
	if err != nil {
		p.lookupFailed(productID, err)
		return nil
	}

	rows := make([]Row, 0, len(parents))
	for _, parent := range parents {
		name := parent.Name
		if name == "" {
			name = parent.SKU
		}
		rows = append(rows, Row{
			ID:       parent.ID,
			SKU:      parent.SKU,
			Name:     name,
			Type:     parent.TypeID,
			LinkType: ResolveLinkType(parent.TypeID),
			EditURL:  p.urls.GetURL(EditRoute, map[string]any{"id": parent.ID}),
		})
	}
	return rows
}

func (p *Provider) lookupFailed(productID int64, err error) {
	parentLookups.WithLabelValues("error").Inc()
	log.WithField("product_id", productID).Warnf("parent products lookup failed: %v", err)
}

// uniqueIDs coerces raw column values to ids, keeping the first occurrence of
// each positive id.
func uniqueIDs(raw []any) []int64 {
	seen := make(map[int64]bool, len(raw))
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id := cast.ToInt64(v)
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
