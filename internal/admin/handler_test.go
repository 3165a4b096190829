package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parent-products/internal/admin"
	"parent-products/internal/adminurl"
	"parent-products/internal/auth"
	"parent-products/internal/catalog"
	"parent-products/internal/config"
	"parent-products/internal/form"
	"parent-products/internal/i18n"
	"parent-products/internal/media"
	"parent-products/internal/parents"
	"parent-products/internal/scopeconfig"
	"parent-products/internal/store"
)

const secret = "test-secret"

func testStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.New(ctx, config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir(), Name: "admin"})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Bootstrap(ctx))

	exec := func(sql string, args ...any) {
		_, err := store.Exec(ctx, s.DB, sql, args...)
		require.NoError(t, err)
	}
	insert := "INSERT INTO catalog_product_entity (entity_id, sku, name, type_id, thumbnail) VALUES (?1, ?2, ?3, ?4, ?5)"
	exec(insert, 300, "CHILD300", "Child 300", "simple", nil)
	exec(insert, 302, "LONER302", "Loner 302", "simple", nil)
	exec(insert, 501, "SKU501", "Parent 501", "grouped", "/a/b/ab.jpg")
	exec("INSERT INTO catalog_product_relation (parent_id, child_id) VALUES (?1, ?2)", 501, 300)
	return s
}

func testApp(t *testing.T, s *store.Store) *fiber.App {
	t.Helper()
	repo := catalog.NewRepository(s.DB, s.Dialect)
	provider := parents.NewProvider(repo, repo, adminurl.NewBuilder(config.AdminConfig{FrontName: "admin"}))
	scope := scopeconfig.NewReader(s.DB, s.Dialect, 1, 1, map[string]any{
		"parentproducts/general/enable": "1",
	})
	acl, err := auth.NewAuthorizer(map[string]string{
		form.ACLResource: `"parents" in user.roles`,
	})
	require.NoError(t, err)
	resolver := media.NewResolver(config.MediaConfig{
		BaseURL:      "/media",
		Presets:      map[string]config.ImagePreset{"product_listing_thumbnail": {Type: "thumbnail", Width: 75, Height: 75}},
		Placeholders: map[string]string{"thumbnail": "catalog/product/placeholder/thumbnail.jpg"},
	}, nil)

	translator, err := i18n.NewTranslator(scope)
	require.NoError(t, err)
	modifier := form.NewParentProducts(scope, acl, catalog.ContextLocator{}, provider, repo, resolver, translator)
	pool := form.NewPool(form.PoolEntry{Name: "parent_products", SortOrder: 210, Modifier: modifier})

	app := fiber.New(fiber.Config{ErrorHandler: admin.ErrorHandler})
	admin.RegisterAdminRoutes(app, admin.NewHandler(repo, provider, acl, pool), auth.AuthMiddleware(secret))
	return app
}

func get(t *testing.T, app *fiber.App, path string, roles ...string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)
	if roles != nil {
		token, err := auth.GenerateAccessToken("user-1", roles, secret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return resp.StatusCode, out
}

func errorCode(out map[string]any) string {
	e, _ := out["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestGetParents(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/300/parents", "parents")
	require.Equal(t, 200, status)
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{
		"id":            float64(501),
		"sku":           "SKU501",
		"name":          "Parent 501",
		"type":          "grouped",
		"link_type":     "grouped",
		"edit_url":      "/admin/catalog/product/edit/id/501",
		"thumbnail_url": "",
	}, rows[0])

	status, out = get(t, app, "/api/admin/catalog/products/302/parents", "parents")
	require.Equal(t, 200, status)
	assert.Equal(t, []any{}, out["data"])
}

func TestGetParentsRequiresResource(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/300/parents", "catalog")
	assert.Equal(t, 403, status)
	assert.Equal(t, "FORBIDDEN", errorCode(out))

	status, _ = get(t, app, "/api/admin/catalog/products/300/parents")
	assert.Equal(t, 401, status)
}

func TestGetFormWithParents(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/300/form", "parents")
	require.Equal(t, 200, status)

	product := out["data"].(map[string]any)["300"].(map[string]any)["product"].(map[string]any)
	assert.Equal(t, "CHILD300", product["sku"])
	rows := product["parent_products"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "/media/catalog/product/cache/75x75/a/b/ab.jpg", row["thumbnail_url"])
	assert.Equal(t, "/admin/catalog/product/edit/id/501", row["edit_url"])

	fieldset := out["meta"].(map[string]any)[form.FieldsetName].(map[string]any)
	cfg := fieldset["arguments"].(map[string]any)["data"].(map[string]any)["config"].(map[string]any)
	assert.Equal(t, "Parent Products (1)", cfg["label"])
	assert.Equal(t, float64(210), cfg["sortOrder"])
}

func TestGetFormWithoutParentsIsUnchanged(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/302/form", "parents")
	require.Equal(t, 200, status)
	assert.Equal(t, map[string]any{}, out["meta"])
	product := out["data"].(map[string]any)["302"].(map[string]any)["product"].(map[string]any)
	assert.NotContains(t, product, "parent_products")
}

func TestGetFormHidesParentsWithoutPermission(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/300/form", "catalog")
	require.Equal(t, 200, status)
	assert.Equal(t, map[string]any{}, out["meta"])
}

func TestGetFormHonoursDisabledFlag(t *testing.T) {
	s := testStore(t)
	_, err := store.Exec(context.Background(), s.DB,
		"INSERT INTO core_config_data (scope, scope_id, path, value) VALUES ('default', 0, ?1, '0')",
		form.XMLPathEnabled)
	require.NoError(t, err)
	app := testApp(t, s)

	status, out := get(t, app, "/api/admin/catalog/products/300/form", "admin")
	require.Equal(t, 200, status)
	assert.Equal(t, map[string]any{}, out["meta"])
}

func TestGetFormErrors(t *testing.T) {
	app := testApp(t, testStore(t))

	status, out := get(t, app, "/api/admin/catalog/products/999/form", "parents")
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", errorCode(out))

	status, out = get(t, app, "/api/admin/catalog/products/abc/form", "parents")
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_ID", errorCode(out))

	status, out = get(t, app, "/api/admin/catalog/products/0/parents", "parents")
	assert.Equal(t, 400, status)
	assert.Equal(t, "INVALID_ID", errorCode(out))
}
