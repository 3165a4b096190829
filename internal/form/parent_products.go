package form

import (
	"context"
	"maps"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"parent-products/internal/catalog"
	"parent-products/internal/parents"
	"parent-products/internal/scopeconfig"
)

const (
	XMLPathEnabled    = "parentproducts/general/enable"
	ACLResource       = "MGH_ParentProducts::parent_products"
	FieldsetName      = "parent_products_fieldset"
	FieldsetSortOrder = 210
	DynamicRowsName   = "parent_products"
	ThumbnailPreset   = "product_listing_thumbnail"
	PlaceholderType   = "thumbnail"
)

var thumbnailAttributes = []string{catalog.AttrSmallImage, catalog.AttrThumbnail, catalog.AttrImage}

type column struct {
	name      string
	label     string
	dataScope string
	template  string
	sortOrder int
}

var columns = []column{
	{"id", "ID", "id", "ui/dynamic-rows/cells/text", 10},
	{"thumbnail", "Thumbnail", "thumbnail_url", "ui/dynamic-rows/cells/thumbnail", 15},
	{"sku", "SKU", "sku", "ui/dynamic-rows/cells/text", 20},
	{"name", "Name", "name", "ui/dynamic-rows/cells/text", 30},
	{"type", "Type", "type", "ui/dynamic-rows/cells/text", 40},
	{"link_type", "Link Type", "link_type", "ui/dynamic-rows/cells/text", 50},
	{"edit_url", "Edit URL", "edit_url", "MGH_ParentProducts/dynamic-rows/cells/edit-link", 60},
}

type ConfigReader interface {
	IsSetFlag(ctx context.Context, path string, scope scopeconfig.Scope) bool
}

type Authorizer interface {
	IsAllowed(ctx context.Context, resource string) bool
}

type ProductLocator interface {
	Product(ctx context.Context) (*catalog.Product, bool)
}

type ParentProvider interface {
	GetParentProducts(ctx context.Context, productID int64) []parents.Row
}

type ImageResolver interface {
	URL(p *catalog.Product, preset string) (string, error)
	PlaceholderURL(imageType string) (string, error)
}

type Translator interface {
	Sprintf(ctx context.Context, key string, args ...any) string
}

// ParentProducts adds the read-only parent products grid to the product form.
type ParentProducts struct {
	config     ConfigReader
	acl        Authorizer
	locator    ProductLocator
	provider   ParentProvider
	products   parents.ProductReader
	images     ImageResolver
	translator Translator
}

func NewParentProducts(
	config ConfigReader,
	acl Authorizer,
	locator ProductLocator,
	provider ParentProvider,
	products parents.ProductReader,
	images ImageResolver,
	translator Translator,
) *ParentProducts {
	return &ParentProducts{
		config:     config,
		acl:        acl,
		locator:    locator,
		provider:   provider,
		products:   products,
		images:     images,
		translator: translator,
	}
}

func (m *ParentProducts) ModifyMeta(ctx context.Context, meta Meta) Meta {
	_, rows, ok := m.parentRows(ctx)
	if !ok {
		return meta
	}

	out := maps.Clone(meta)
	if out == nil {
		out = Meta{}
	}
	out[FieldsetName] = m.fieldsetMeta(ctx, len(rows))
	return out
}

func (m *ParentProducts) ModifyData(ctx context.Context, data Data) Data {
	productID, rows, ok := m.parentRows(ctx)
	if !ok {
		return data
	}

	thumbnails := m.loadThumbnails(ctx, rows)
	augmented := make([]parents.Row, len(rows))
	for i, row := range rows {
		row.ThumbnailURL = thumbnails[row.ID]
		augmented[i] = row
	}

	key := strconv.FormatInt(productID, 10)
	entry, ok := writableNode(data[key])
	if !ok {
		log.WithField("product_id", productID).Warnf("form data node is %T, parent products not added", data[key])
		return data
	}
	product, ok := writableNode(entry["product"])
	if !ok {
		log.WithField("product_id", productID).Warnf("form product node is %T, parent products not added", entry["product"])
		return data
	}
	product["parent_products"] = augmented
	entry["product"] = product

	out := maps.Clone(data)
	if out == nil {
		out = Data{}
	}
	out[key] = entry
	return out
}

// parentRows runs the guard sequence and returns the current product id with
// its parent rows, or ok=false when the form must be left untouched.
func (m *ParentProducts) parentRows(ctx context.Context) (int64, []parents.Row, bool) {
	if !m.config.IsSetFlag(ctx, XMLPathEnabled, scopeconfig.ScopeStore) {
		return 0, nil, false
	}
	if !m.acl.IsAllowed(ctx, ACLResource) {
		return 0, nil, false
	}
	product, ok := m.locator.Product(ctx)
	if !ok || product == nil || product.ID <= 0 {
		return 0, nil, false
	}
	rows := m.provider.GetParentProducts(ctx, product.ID)
	if len(rows) == 0 {
		return 0, nil, false
	}
	return product.ID, rows, true
}

// loadThumbnails maps parent ids to thumbnail URLs. Resolution falls back to
// the placeholder image, then to an empty string.
func (m *ParentProducts) loadThumbnails(ctx context.Context, rows []parents.Row) map[int64]string {
	seen := make(map[int64]bool, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		if r.ID <= 0 || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := m.products.ProductsByIDs(ctx, ids, thumbnailAttributes)
	if err != nil {
		log.Warnf("load parent thumbnails: %v", err)
		return nil
	}

	urls := make(map[int64]string, len(products))
	for _, p := range products {
		url, err := m.images.URL(p, ThumbnailPreset)
		if err == nil {
			urls[p.ID] = url
			continue
		}
		log.WithField("product_id", p.ID).Debugf("thumbnail unavailable: %v", err)

		placeholder, err := m.images.PlaceholderURL(PlaceholderType)
		if err != nil {
			thumbnailFallbacks.WithLabelValues("empty").Inc()
			urls[p.ID] = ""
			continue
		}
		thumbnailFallbacks.WithLabelValues("placeholder").Inc()
		urls[p.ID] = placeholder
	}
	return urls
}

func (m *ParentProducts) fieldsetMeta(ctx context.Context, count int) *Component {
	return withConfig(FieldsetConfig{
		ComponentType: "fieldset",
		Label:         m.translator.Sprintf(ctx, "Parent Products (%s)", strconv.Itoa(count)),
		Collapsible:   true,
		Opened:        true,
		SortOrder:     FieldsetSortOrder,
	}, Child{Name: DynamicRowsName, Component: m.dynamicRowsMeta(ctx)})
}

func (m *ParentProducts) dynamicRowsMeta(ctx context.Context) *Component {
	cols := make(Children, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, Child{Name: c.name, Component: withConfig(ColumnConfig{
			ComponentType: "field",
			FormElement:   "input",
			DataType:      "text",
			ElementTmpl:   c.template,
			Label:         m.translator.Sprintf(ctx, c.label),
			DataScope:     c.dataScope,
			Disabled:      false,
			Visible:       true,
			SortOrder:     c.sortOrder,
		})})
	}

	record := withConfig(RecordConfig{
		ComponentType: "container",
		IsTemplate:    true,
		IsCollection:  true,
		DataScope:     "",
		Disabled:      false,
	}, cols...)

	return withConfig(DynamicRowsConfig{
		ComponentType:       "dynamicRows",
		Component:           "Magento_Ui/js/dynamic-rows/dynamic-rows",
		DataScope:           "data.product",
		Label:               false,
		ColumnsHeader:       true,
		RenderDefaultRecord: false,
		AddButton:           false,
		DndConfig:           DndConfig{Enabled: false},
		Template:            "ui/dynamic-rows/templates/grid",
		AdditionalClasses:   "admin__field-wide admin__control-table",
		Visible:             true,
		SortOrder:           10,
		IndexField:          "id",
	}, Child{Name: "record", Component: record})
}

// writableNode returns a copy of a form data node that children can be added
// to. A missing node starts empty. map[string]any, map[string]string and
// map[any]any nodes are copied into a map[string]any; any other value reports false.
func writableNode(v any) (map[string]any, bool) {
	var out map[string]any
	switch m := v.(type) {
	case nil:
	case map[string]any:
		out = maps.Clone(m)
	case Data:
		out = maps.Clone(map[string]any(m))
	case map[string]string:
		out = make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
	case map[any]any:
		converted, err := cast.ToStringMapE(m)
		if err != nil {
			return nil, false
		}
		out = converted
	default:
		return nil, false
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, true
}
