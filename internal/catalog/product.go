package catalog

import (
	"context"

	"github.com/spf13/cast"
)

// Product type codes.
const (
	TypeSimple       = "simple"
	TypeVirtual      = "virtual"
	TypeConfigurable = "configurable"
	TypeBundle       = "bundle"
	TypeGrouped      = "grouped"
)

// NoSelection marks an image attribute that has no image assigned.
const NoSelection = "no_selection"

// Attribute codes readable through Repository.ProductsByIDs.
const (
	AttrSKU        = "sku"
	AttrName       = "name"
	AttrTypeID     = "type_id"
	AttrImage      = "image"
	AttrSmallImage = "small_image"
	AttrThumbnail  = "thumbnail"
)

// Product is a catalog record with the attributes that were selected when it was loaded.
type Product struct {
	ID         int64  `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	TypeID     string `json:"type_id"`
	Image      string `json:"image,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

// ImageFile returns the file stored in the given image attribute, or ""
// when the attribute is unset or holds NoSelection.
func (p *Product) ImageFile(attribute string) string {
	var v string
	switch attribute {
	case AttrImage:
		v = p.Image
	case AttrSmallImage:
		v = p.SmallImage
	case AttrThumbnail:
		v = p.Thumbnail
	}
	if v == NoSelection {
		return ""
	}
	return v
}

func productFromRow(row map[string]any) *Product {
	return &Product{
		ID:         cast.ToInt64(row["entity_id"]),
		SKU:        cast.ToString(row[AttrSKU]),
		Name:       cast.ToString(row[AttrName]),
		TypeID:     cast.ToString(row[AttrTypeID]),
		Image:      cast.ToString(row[AttrImage]),
		SmallImage: cast.ToString(row[AttrSmallImage]),
		Thumbnail:  cast.ToString(row[AttrThumbnail]),
	}
}

type productKey struct{}

// WithProduct returns a context carrying the product currently being edited.
func WithProduct(ctx context.Context, p *Product) context.Context {
	return context.WithValue(ctx, productKey{}, p)
}

// ContextLocator resolves the product being edited from the request context.
type ContextLocator struct{}

// Product returns the product stored by WithProduct, if any.
func (ContextLocator) Product(ctx context.Context) (*Product, bool) {
	p, ok := ctx.Value(productKey{}).(*Product)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
