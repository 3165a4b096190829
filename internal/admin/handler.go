package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"parent-products/internal/catalog"
	"parent-products/internal/form"
	"parent-products/internal/parents"
	"parent-products/internal/store"
)

// ProductFinder loads the product opened in the editor.
type ProductFinder interface {
	ProductByID(ctx context.Context, id int64) (*catalog.Product, error)
}

type Handler struct {
	products ProductFinder
	parents  form.ParentProvider
	acl      form.Authorizer
	pool     *form.Pool
}

func NewHandler(products ProductFinder, provider form.ParentProvider, acl form.Authorizer, pool *form.Pool) *Handler {
	return &Handler{products: products, parents: provider, acl: acl, pool: pool}
}

// RegisterAdminRoutes mounts the catalog admin endpoints behind the given middleware.
func RegisterAdminRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	products := app.Group("/api/admin/catalog/products", middleware...)

	products.Get("/:id/parents", h.GetParents)
	products.Get("/:id/form", h.GetForm)
}

// GetParents handles GET /api/admin/catalog/products/:id/parents.
func (h *Handler) GetParents(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	if !h.acl.IsAllowed(ctx, form.ACLResource) {
		return ForbiddenError("Access to " + form.ACLResource + " denied")
	}

	rows := h.parents.GetParentProducts(ctx, id)
	if rows == nil {
		rows = []parents.Row{}
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GetForm handles GET /api/admin/catalog/products/:id/form. The base product
// payload is passed through the modifier pool.
func (h *Handler) GetForm(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}

	product, err := h.products.ProductByID(c.UserContext(), id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("product", c.Params("id"))
	}
	if err != nil {
		return fmt.Errorf("load product %d: %w", id, err)
	}

	ctx := catalog.WithProduct(c.UserContext(), product)
	data := form.Data{
		strconv.FormatInt(product.ID, 10): map[string]any{
			"product": map[string]any{
				"sku":     product.SKU,
				"name":    product.Name,
				"type_id": product.TypeID,
			},
		},
	}

	return c.JSON(fiber.Map{
		"data": h.pool.ModifyData(ctx, data),
		"meta": h.pool.ModifyMeta(ctx, form.Meta{}),
	})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, InvalidIDError(raw)
	}
	return id, nil
}
