package parents

import "parent-products/internal/catalog"

// Link types shown for a parent product.
const (
	LinkConfigurable = "configurable"
	LinkBundle       = "bundle"
	LinkGrouped      = "grouped"
	LinkRelation     = "relation"
)

// ResolveLinkType maps a parent's product type code to its link type label.
func ResolveLinkType(productType string) string {
	switch productType {
	case catalog.TypeConfigurable:
		return LinkConfigurable
	case catalog.TypeBundle:
		return LinkBundle
	case catalog.TypeGrouped:
		return LinkGrouped
	default:
		return LinkRelation
	}
}
